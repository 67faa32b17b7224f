package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finflow/internal/advisor"
	appamqp "finflow/internal/amqp"
	"finflow/internal/collab"
	"finflow/internal/collab/memory"
	"finflow/internal/config"
	"finflow/internal/engine"
	apphttp "finflow/internal/http"
	"finflow/internal/ledger"
	"finflow/internal/log"
	"finflow/internal/services"
	"finflow/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	// Persistence backend
	var persistence collab.Persistence
	switch cfg.DataBackend {
	case config.BackendSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, logger)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository",
				log.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		persistence = repo
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		persistence = memory.NewPersistence()
		logger.Info("Initialized memory backend")
	}

	state, err := persistence.LoadState(context.Background())
	if err != nil {
		logger.Error("Failed to load persisted state", log.FieldError, err.Error())
		os.Exit(1)
	}
	if len(state.Transactions) == 0 && state.Profile == nil && len(state.Goals) == 0 && cfg.SeedDemoData {
		state = demoState()
		logger.Info("Seeded demo data",
			"transactions", len(state.Transactions), "goals", len(state.Goals))
	}
	store := ledger.NewFromState(state.Transactions, state.Profile, state.Goals)

	// AMQP event stream (optional)
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP event stream enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	ledgerSvc := services.NewLedgerService(store, persistence, publisher, logger)
	eng := engine.New(store, memory.NewHoldings(), demoContacts(), logger)

	if cfg.ReasoningURL == "" {
		logger.Warn("REASONING_URL not set - advisor will always answer with the fallback reply")
	}
	gateway := advisor.NewGateway(
		advisor.NewHTTPClient(cfg.ReasoningURL, cfg.ReasoningAPIKey),
		advisorSnapshot(eng),
		cfg.ReasoningTimeout,
		logger,
	)

	srv := apphttp.NewServer(":"+cfg.Port, ledgerSvc, eng, gateway, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting finflow server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}

// advisorSnapshot freezes the financial view the advisory prompt is built
// from. The engine captures every field from one store snapshot, so the
// prompt never mixes pre- and post-mutation state.
func advisorSnapshot(eng *engine.Engine) advisor.SnapshotFunc {
	return func(ctx context.Context) (advisor.Snapshot, error) {
		s, err := eng.Summary(ctx)
		if err != nil {
			return advisor.Snapshot{}, err
		}
		return advisor.Snapshot{
			Balance:            s.Balance,
			ProjectedSurplus90: s.ProjectedSurplus90,
			Goals:              s.Goals,
			MonthlyFixed:       s.MonthlyFixed,
		}, nil
	}
}
