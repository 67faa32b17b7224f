// Package worker applies ledger events from the AMQP stream to durable
// storage.
package worker

import (
	"context"
	"fmt"
	"sync"

	"finflow/internal/amqp"
	"finflow/internal/collab"
	"finflow/internal/log"
)

// PersistWorker writes the state embedded in each ledger event to the
// persistence layer. Each message carries the full state after its
// mutation, so handling is idempotent; a stale redelivery is detected by
// version vector and skipped.
type PersistWorker struct {
	persistence collab.Persistence
	logger      *log.Logger

	mu          sync.Mutex
	lastLedger  uint64
	lastProfile uint64
	lastGoals   uint64
}

func NewPersistWorker(persistence collab.Persistence, logger *log.Logger) *PersistWorker {
	return &PersistWorker{
		persistence: persistence,
		logger:      logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerEvent processes a single ledger event from AMQP.
func (w *PersistWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	if w.isStale(msg) {
		w.logger.WarnContext(ctx, "Skipping stale ledger event",
			"event", msg.Event,
			log.FieldLedgerVersion, msg.LedgerVersion)
		return nil
	}

	state, err := msg.ToState()
	if err != nil {
		return fmt.Errorf("decode ledger event state: %w", err)
	}

	if err := w.persistence.SaveState(ctx, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	w.markApplied(msg)
	w.logger.InfoContext(ctx, "Ledger event persisted",
		log.FieldOperation, log.OpConsume,
		"event", msg.Event,
		log.FieldLedgerVersion, msg.LedgerVersion,
		"transactions", len(state.Transactions),
		"goals", len(state.Goals))
	return nil
}

// Run consumes ledger events until the context is cancelled.
func (w *PersistWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
		return w.HandleLedgerEvent(ctx, msg)
	})
}

// isStale reports whether every counter in the message is at or behind what
// was already applied. A message that advances any counter must be applied.
func (w *PersistWorker) isStale(msg *amqp.LedgerEventMessage) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	behind := msg.LedgerVersion <= w.lastLedger &&
		msg.ProfileVersion <= w.lastProfile &&
		msg.GoalsVersion <= w.lastGoals
	applied := w.lastLedger > 0 || w.lastProfile > 0 || w.lastGoals > 0
	return applied && behind
}

func (w *PersistWorker) markApplied(msg *amqp.LedgerEventMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if msg.LedgerVersion > w.lastLedger {
		w.lastLedger = msg.LedgerVersion
	}
	if msg.ProfileVersion > w.lastProfile {
		w.lastProfile = msg.ProfileVersion
	}
	if msg.GoalsVersion > w.lastGoals {
		w.lastGoals = msg.GoalsVersion
	}
}
