// Package services orchestrates ledger mutations across the in-memory
// store, durable persistence, and the AMQP event stream.
package services

import (
	"context"
	"fmt"

	"finflow/internal/amqp"
	"finflow/internal/collab"
	"finflow/internal/core"
	"finflow/internal/ledger"
	"finflow/internal/log"
)

// EventPublisher publishes ledger mutation events. Satisfied by
// *amqp.Client.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

// LedgerService applies mutations to the store, then persists and publishes
// best-effort. The store is the source of truth; a failed save or publish
// is logged and never fails the request.
type LedgerService struct {
	store       *ledger.Store
	persistence collab.Persistence
	publisher   EventPublisher
	logger      *log.Logger
}

func NewLedgerService(store *ledger.Store, persistence collab.Persistence, publisher EventPublisher, logger *log.Logger) *LedgerService {
	return &LedgerService{
		store:       store,
		persistence: persistence,
		publisher:   publisher,
		logger:      logger.WithComponent(log.ComponentLedger),
	}
}

// Store exposes the underlying store for read paths.
func (s *LedgerService) Store() *ledger.Store {
	return s.store
}

// AddTransaction appends a validated transaction to the ledger.
func (s *LedgerService) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	stored, err := s.store.AddTransaction(tx)
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction added",
		log.FieldOperation, log.OpCreate,
		log.FieldTransactionID, stored.ID,
		log.FieldTxType, string(stored.Type),
		log.FieldAmountPaise, stored.Amount.Paise)

	s.afterMutation(ctx, amqp.EventTransactionAdded)
	return stored, nil
}

// UpdateProfile replaces the calibration profile.
func (s *LedgerService) UpdateProfile(ctx context.Context, p core.CalibrationProfile) error {
	if err := s.store.UpdateProfile(p); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Profile updated", log.FieldOperation, log.OpUpdate)
	s.afterMutation(ctx, amqp.EventProfileUpdated)
	return nil
}

// AddGoal creates a new goal.
func (s *LedgerService) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	stored, err := s.store.AddGoal(g)
	if err != nil {
		return core.Goal{}, err
	}

	s.logger.InfoContext(ctx, "Goal added",
		log.FieldOperation, log.OpCreate, log.FieldGoalID, stored.ID)
	s.afterMutation(ctx, amqp.EventGoalAdded)
	return stored, nil
}

// Contribute adds deltaPaise to a goal's current amount.
func (s *LedgerService) Contribute(ctx context.Context, goalID string, deltaPaise int64) (core.Goal, error) {
	updated, err := s.store.Contribute(goalID, deltaPaise)
	if err != nil {
		return core.Goal{}, err
	}

	s.logger.InfoContext(ctx, "Goal contribution recorded",
		log.FieldOperation, log.OpUpdate,
		log.FieldGoalID, goalID,
		log.FieldAmountPaise, deltaPaise)
	s.afterMutation(ctx, amqp.EventGoalContribution)
	return updated, nil
}

// Invite adds a contributor to a goal.
func (s *LedgerService) Invite(ctx context.Context, goalID, name string) (core.Goal, error) {
	updated, err := s.store.Invite(goalID, name)
	if err != nil {
		return core.Goal{}, err
	}

	s.logger.InfoContext(ctx, "Contributor invited",
		log.FieldOperation, log.OpUpdate, log.FieldGoalID, goalID)
	s.afterMutation(ctx, amqp.EventGoalInvite)
	return updated, nil
}

func (s *LedgerService) afterMutation(ctx context.Context, event string) {
	snap := s.store.Snapshot()
	state := collab.State{
		Transactions: snap.Transactions,
		Profile:      snap.Profile,
		Goals:        snap.Goals,
	}

	if s.persistence != nil {
		if err := s.persistence.SaveState(ctx, state); err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist state",
				"event", event, log.FieldError, err.Error())
		}
	}

	if s.publisher != nil {
		msg := amqp.NewLedgerEventMessage(event, snap.Versions, state)
		if err := s.publisher.PublishLedgerEvent(ctx, msg); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish ledger event",
				"event", event, log.FieldError, err.Error())
		}
	}
}

// Close closes the persistence layer if it is closable.
func (s *LedgerService) Close() error {
	type closer interface{ Close() error }
	if c, ok := s.persistence.(closer); ok && c != nil {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close persistence: %w", err)
		}
	}
	return nil
}
