// Package engine exposes the derived, read-only views of the ledger:
// period overview, surplus projection, net worth, debt balances, and goal
// progress. Every view is a pure function of a store snapshot plus the
// external collaborators, memoized by the snapshot's version vector.
package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"finflow/internal/collab"
	"finflow/internal/core"
	"finflow/internal/ledger"
	"finflow/internal/log"
	"finflow/internal/memo"
)

const (
	cacheSize = 64
	cacheTTL  = 5 * time.Minute
)

// Overview is the aggregated view of one reporting period.
type Overview struct {
	Period  core.Period
	Totals  core.Totals
	Balance core.Money
}

// Summary is the cross-view capture handed to the advisory prompt. All
// fields derive from one store snapshot, so balance, projection, goals, and
// commitments always describe the same ledger state.
type Summary struct {
	Balance            core.Money
	ProjectedSurplus90 core.Money
	Goals              []core.GoalProgress
	MonthlyFixed       core.Money
}

// DebtEntry is a netted counterparty balance with its resolved display name.
type DebtEntry struct {
	CounterpartyID   string
	DisplayName      string
	NetAmount        core.Money
	LastActivityDate core.Date
}

// Engine derives read models from the ledger store and the collaborators.
type Engine struct {
	store    *ledger.Store
	holdings collab.HoldingsProvider
	contacts collab.ContactsDirectory
	policy   core.PacingPolicy
	logger   *log.Logger
	now      func() time.Time

	overviewCache *memo.Cache[Overview]
	networthCache *memo.Cache[core.NetWorthView]
	debtsCache    *memo.Cache[[]DebtEntry]
	group         singleflight.Group
}

// Option configures an Engine.
type Option func(*Engine)

// WithPacingPolicy swaps the goal pacing policy.
func WithPacingPolicy(p core.PacingPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithClock overrides the engine's notion of now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given store and collaborators.
func New(store *ledger.Store, holdings collab.HoldingsProvider, contacts collab.ContactsDirectory, logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		holdings:      holdings,
		contacts:      contacts,
		policy:        core.ThresholdPolicy{},
		logger:        logger.WithComponent(log.ComponentEngine),
		now:           time.Now,
		overviewCache: memo.New[Overview](cacheSize, cacheTTL),
		networthCache: memo.New[core.NetWorthView](cacheSize, cacheTTL),
		debtsCache:    memo.New[[]DebtEntry](cacheSize, cacheTTL),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Overview returns totals and balance for the given period.
func (e *Engine) Overview(ctx context.Context, period core.Period) (Overview, error) {
	if err := period.Validate(); err != nil {
		return Overview{}, err
	}
	return e.overviewAt(ctx, e.store.Snapshot(), period)
}

// overviewAt derives the overview from the given snapshot. Views that merge
// the overview with other state must pass the one snapshot they were built
// from, so balance and cache key always describe the same ledger state.
func (e *Engine) overviewAt(ctx context.Context, snap ledger.Snapshot, period core.Period) (Overview, error) {
	key := memo.Key{Ledger: snap.Versions.Ledger, Scope: "overview:" + period.String()}
	if cached, ok := e.overviewCache.Get(key); ok {
		return cached, nil
	}

	v, err, _ := e.group.Do(key.String(), func() (any, error) {
		totals := core.Reduce(core.FilterPeriod(snap.Transactions, period))
		ov := Overview{Period: period, Totals: totals, Balance: totals.Balance()}
		e.overviewCache.Set(key, ov)
		e.logger.InfoContext(ctx, "Derived period overview",
			log.FieldOperation, log.OpDerive,
			log.FieldPeriod, period.String(),
			log.FieldLedgerVersion, snap.Versions.Ledger)
		return ov, nil
	})
	if err != nil {
		return Overview{}, err
	}
	return v.(Overview), nil
}

// Projection returns the 30/60/90-day surplus forecast. The variable figure
// always comes from the current calendar period, not the period under view.
func (e *Engine) Projection(ctx context.Context) (core.Projection, error) {
	snap := e.store.Snapshot()
	ov, err := e.overviewAt(ctx, snap, core.CurrentPeriod(e.now()))
	if err != nil {
		return core.Projection{}, fmt.Errorf("projection: %w", err)
	}
	return core.Project(snap.Profile, ov.Totals.Variable), nil
}

// NetWorth merges the period's cash balance with the holdings collaborator's
// positions.
func (e *Engine) NetWorth(ctx context.Context, period core.Period) (core.NetWorthView, error) {
	if err := period.Validate(); err != nil {
		return core.NetWorthView{}, err
	}
	snap := e.store.Snapshot()
	ov, err := e.overviewAt(ctx, snap, period)
	if err != nil {
		return core.NetWorthView{}, err
	}
	key := memo.Key{Ledger: snap.Versions.Ledger, Scope: "networth:" + period.String()}
	if cached, ok := e.networthCache.Get(key); ok {
		return cached, nil
	}

	v, err, _ := e.group.Do(key.String(), func() (any, error) {
		holdings := make(map[core.AssetCategory]core.Holding, len(core.AssetCategories)-1)
		for _, cat := range core.AssetCategories {
			if cat == core.AssetCash {
				continue
			}
			h, err := e.holdings.GetAssetValue(ctx, cat)
			if err != nil {
				return core.NetWorthView{}, fmt.Errorf("get asset value for %s: %w", cat, err)
			}
			holdings[cat] = h
		}
		view := core.ComposeNetWorth(ov.Balance, holdings)
		e.networthCache.Set(key, view)
		return view, nil
	})
	if err != nil {
		return core.NetWorthView{}, err
	}
	return v.(core.NetWorthView), nil
}

// Debts nets the full ledger per counterparty and resolves display names
// through the contacts collaborator. An unmapped counterparty surfaces
// collab.ErrContactNotFound; it is never papered over with a default name.
func (e *Engine) Debts(ctx context.Context) ([]DebtEntry, error) {
	snap := e.store.Snapshot()
	key := memo.Key{Ledger: snap.Versions.Ledger, Scope: "debts"}
	if cached, ok := e.debtsCache.Get(key); ok {
		return cached, nil
	}

	v, err, _ := e.group.Do(key.String(), func() (any, error) {
		balances := core.NetDebts(snap.Transactions)
		entries := make([]DebtEntry, len(balances))
		for i, b := range balances {
			name, err := e.contacts.ResolveName(ctx, b.CounterpartyID)
			if err != nil {
				return nil, fmt.Errorf("debt ledger: %w", err)
			}
			entries[i] = DebtEntry{
				CounterpartyID:   b.CounterpartyID,
				DisplayName:      name,
				NetAmount:        b.NetAmount,
				LastActivityDate: b.LastActivityDate,
			}
		}
		e.debtsCache.Set(key, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]DebtEntry), nil
}

// Goals derives funding progress for every goal under the configured pacing
// policy.
func (e *Engine) Goals(ctx context.Context) []core.GoalProgress {
	snap := e.store.Snapshot()
	return core.TrackGoals(snap.Goals, e.policy, e.now())
}

// Profile returns the current calibration profile, or nil when none is set.
func (e *Engine) Profile() *core.CalibrationProfile {
	return e.store.Snapshot().Profile
}

// Summary captures the current-period balance, the 90-day surplus, goal
// progress, and the declared fixed commitments from a single snapshot. A
// mutation landing mid-capture affects either all fields or none.
func (e *Engine) Summary(ctx context.Context) (Summary, error) {
	snap := e.store.Snapshot()
	now := e.now()
	ov, err := e.overviewAt(ctx, snap, core.CurrentPeriod(now))
	if err != nil {
		return Summary{}, fmt.Errorf("summary: %w", err)
	}
	proj := core.Project(snap.Profile, ov.Totals.Variable)
	s := Summary{
		Balance:            ov.Balance,
		ProjectedSurplus90: proj.Surplus90,
		Goals:              core.TrackGoals(snap.Goals, e.policy, now),
	}
	if snap.Profile != nil {
		s.MonthlyFixed = snap.Profile.MonthlyFixed
	}
	return s, nil
}
