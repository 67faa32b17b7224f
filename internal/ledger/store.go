// Package ledger owns the mutable ledger state: the transaction list, the
// calibration profile, and the goals. It is the only place state changes;
// everything else in the system is a pure projection of a Snapshot.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"finflow/internal/core"
)

// ErrUnknownGoal is returned when a goal mutation names an id that does not
// exist. Surfaced to the caller, never silently ignored.
var ErrUnknownGoal = errors.New("unknown goal")

// Versions is the version vector stamped onto every snapshot. Each mutation
// bumps exactly the counters for the state it touched, so derivations can be
// memoized by version without ever serving stale results.
type Versions struct {
	Ledger  uint64
	Profile uint64
	Goals   uint64
}

// Snapshot is an immutable copy of the store's state at one instant. All
// slices are defensive copies; a reader can never observe a half-applied
// mutation or be affected by later ones.
type Snapshot struct {
	Transactions []core.Transaction // newest first
	Profile      *core.CalibrationProfile
	Goals        []core.Goal
	Versions     Versions
}

// Store is the single logical owner of ledger state. Mutations are atomic
// with respect to Snapshot.
type Store struct {
	mu       sync.RWMutex
	txs      []core.Transaction // newest first
	profile  *core.CalibrationProfile
	goals    []core.Goal
	versions Versions
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// NewFromState creates a store seeded with previously persisted state.
func NewFromState(txs []core.Transaction, profile *core.CalibrationProfile, goals []core.Goal) *Store {
	s := &Store{
		txs:   append([]core.Transaction(nil), txs...),
		goals: make([]core.Goal, len(goals)),
	}
	if profile != nil {
		p := *profile
		s.profile = &p
	}
	for i, g := range goals {
		g.Contributors = append([]string(nil), g.Contributors...)
		s.goals[i] = g
	}
	return s
}

// AddTransaction validates the transaction, mints its id, and prepends it to
// the ledger. The input's ID field is ignored. Returns the stored record.
func (s *Store) AddTransaction(tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append([]core.Transaction{tx}, s.txs...)
	s.versions.Ledger++
	return tx, nil
}

// UpdateProfile replaces the calibration profile wholesale.
func (s *Store) UpdateProfile(p core.CalibrationProfile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
	s.versions.Profile++
	return nil
}

// AddGoal validates the goal, mints its id, and appends it. The input's ID
// field is ignored. Returns the stored goal.
func (s *Store) AddGoal(g core.Goal) (core.Goal, error) {
	g.ID = uuid.NewString()
	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("add goal: %w", err)
	}
	g.Contributors = append([]string(nil), g.Contributors...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
	s.versions.Goals++
	return g, nil
}

// Contribute adds deltaPaise to the named goal's current amount. The delta
// may be negative to support corrections; the target amount is never
// touched. Returns the updated goal.
func (s *Store) Contribute(goalID string, deltaPaise int64) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.goalIndex(goalID)
	if i < 0 {
		return core.Goal{}, fmt.Errorf("contribute to %q: %w", goalID, ErrUnknownGoal)
	}
	s.goals[i].CurrentAmount.Paise += deltaPaise
	s.versions.Goals++
	return s.copyGoal(i), nil
}

// Invite adds a contributor name to the named goal with set semantics:
// reinviting an existing contributor is a no-op, not an error. The goals
// version is bumped only when the set actually changes.
func (s *Store) Invite(goalID, name string) (core.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Goal{}, fmt.Errorf("invite: %w", core.ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.goalIndex(goalID)
	if i < 0 {
		return core.Goal{}, fmt.Errorf("invite to %q: %w", goalID, ErrUnknownGoal)
	}
	if !s.goals[i].HasContributor(name) {
		s.goals[i].Contributors = append(s.goals[i].Contributors, name)
		s.versions.Goals++
	}
	return s.copyGoal(i), nil
}

// Snapshot returns an immutable copy of the current state plus its version
// vector.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Transactions: append([]core.Transaction(nil), s.txs...),
		Goals:        make([]core.Goal, len(s.goals)),
		Versions:     s.versions,
	}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	for i := range s.goals {
		snap.Goals[i] = s.copyGoal(i)
	}
	return snap
}

// Versions returns the current version vector without copying state.
func (s *Store) Versions() Versions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions
}

func (s *Store) goalIndex(goalID string) int {
	for i := range s.goals {
		if s.goals[i].ID == goalID {
			return i
		}
	}
	return -1
}

// copyGoal requires s.mu held.
func (s *Store) copyGoal(i int) core.Goal {
	g := s.goals[i]
	g.Contributors = append([]string(nil), g.Contributors...)
	return g
}
