// Package collab declares the ports for the external collaborators the
// engine depends on: holdings tracking, contact resolution, and persistence.
package collab

import (
	"context"
	"errors"

	"finflow/internal/core"
)

// ErrContactNotFound is returned when a counterparty id has no known
// display name. Callers must surface this; an unmapped id is a
// data-integrity problem, never a default name.
var ErrContactNotFound = errors.New("contact not found")

type (
	// HoldingsProvider reports externally maintained positions for the
	// non-Cash asset categories.
	HoldingsProvider interface {
		GetAssetValue(ctx context.Context, category core.AssetCategory) (core.Holding, error)
	}

	// ContactsDirectory resolves counterparty ids to display names.
	ContactsDirectory interface {
		// ResolveName fails with ErrContactNotFound for unknown ids.
		ResolveName(ctx context.Context, friendID string) (string, error)
	}

	// State is the full persisted ledger state.
	State struct {
		Transactions []core.Transaction
		Profile      *core.CalibrationProfile
		Goals        []core.Goal
	}

	// Persistence loads and commits ledger state. Synchronous from the
	// core's point of view.
	Persistence interface {
		LoadState(ctx context.Context) (State, error)
		SaveState(ctx context.Context, s State) error
	}
)
