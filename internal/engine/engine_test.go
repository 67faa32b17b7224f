package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finflow/internal/collab"
	collabmem "finflow/internal/collab/memory"
	"finflow/internal/core"
	"finflow/internal/ledger"
	"finflow/internal/log"
)

var december = core.Period{Year: 2023, Month: 12}

func decemberClock() time.Time {
	return time.Date(2023, 12, 20, 12, 0, 0, 0, time.UTC)
}

func seedStore(t *testing.T) *ledger.Store {
	t.Helper()
	s := ledger.New()
	require.NoError(t, s.UpdateProfile(core.CalibrationProfile{
		DisplayName:   "Arjun",
		PartnerName:   "Riya",
		MonthlyIncome: core.Rupees(125000),
		MonthlyFixed:  core.Rupees(53500),
		SavingsTarget: core.Rupees(30000),
	}))
	seed := []core.Transaction{
		{Amount: core.Rupees(125000), Category: "Salary", Description: "Monthly Payroll", Date: core.NewDate(2023, 12, 1), Type: core.TypeIncome},
		{Amount: core.Rupees(15000), Category: "SIP", Description: "Small cap SIP", Date: core.NewDate(2023, 12, 5), Type: core.TypeInvestment, AssetType: core.AssetSIP, IsRecurring: true},
		{Amount: core.Rupees(45000), Category: "Rent", Description: "Apartment rent", Date: core.NewDate(2023, 12, 2), Type: core.TypeExpense, IsRecurring: true},
		{Amount: core.Rupees(8500), Category: "EMI", Description: "Phone EMI", Date: core.NewDate(2023, 12, 10), Type: core.TypeEMI, IsRecurring: true},
		{Amount: core.Rupees(2200), Category: "Food", Description: "Dinner out", Date: core.NewDate(2023, 12, 12), Type: core.TypeExpense},
		{Amount: core.Rupees(1500), Category: "Friend", Description: "Lunch owed", Date: core.NewDate(2023, 12, 15), Type: core.TypeP2PPayment, FriendID: "f1"},
	}
	for _, tx := range seed {
		_, err := s.AddTransaction(tx)
		require.NoError(t, err)
	}
	return s
}

func newEngine(t *testing.T, store *ledger.Store) *Engine {
	t.Helper()
	logger := log.New(log.DefaultConfig())
	contacts := collabmem.NewContacts(map[string]string{"f1": "Kabir"})
	return New(store, collabmem.NewHoldings(), contacts, logger, WithClock(decemberClock))
}

func TestOverview(t *testing.T) {
	e := newEngine(t, seedStore(t))

	ov, err := e.Overview(context.Background(), december)
	require.NoError(t, err)
	assert.Equal(t, core.Rupees(125000), ov.Totals.Income)
	assert.Equal(t, core.Rupees(53500), ov.Totals.Fixed)
	// 2200 dinner + 1500 p2p payment.
	assert.Equal(t, core.Rupees(3700), ov.Totals.Variable)
	assert.Equal(t, core.Rupees(15000), ov.Totals.Investment)
	assert.Equal(t, core.Rupees(52800), ov.Balance)
}

func TestOverviewEmptyPeriod(t *testing.T) {
	e := newEngine(t, seedStore(t))

	ov, err := e.Overview(context.Background(), core.Period{Year: 2030, Month: 1})
	require.NoError(t, err)
	assert.Zero(t, ov.Balance.Paise)

	_, err = e.Overview(context.Background(), core.Period{Year: 2023, Month: 13})
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)
}

func TestOverviewMemoizationInvalidatedByMutation(t *testing.T) {
	store := seedStore(t)
	e := newEngine(t, store)
	ctx := context.Background()

	before, err := e.Overview(ctx, december)
	require.NoError(t, err)

	_, err = store.AddTransaction(core.Transaction{
		Amount: core.Rupees(1000), Category: "Food", Description: "Groceries",
		Date: core.NewDate(2023, 12, 21), Type: core.TypeExpense,
	})
	require.NoError(t, err)

	after, err := e.Overview(ctx, december)
	require.NoError(t, err)
	assert.Equal(t, before.Balance.Paise-core.Rupees(1000).Paise, after.Balance.Paise)
}

func TestProjectionUsesCurrentPeriodVariable(t *testing.T) {
	e := newEngine(t, seedStore(t))

	p, err := e.Projection(context.Background())
	require.NoError(t, err)
	// variable = 3700 observed in the current period;
	// 125000 - 53500 - 3700 = 67800.
	assert.Equal(t, core.Rupees(67800), p.Surplus30)
	assert.Equal(t, core.Rupees(203400), p.Surplus90)
}

func TestProjectionWithoutProfile(t *testing.T) {
	store := ledger.New()
	e := newEngine(t, store)

	p, err := e.Projection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Projection{}, p)
}

func TestNetWorthTracksBalance(t *testing.T) {
	store := seedStore(t)
	e := newEngine(t, store)
	ctx := context.Background()

	view, err := e.NetWorth(ctx, december)
	require.NoError(t, err)
	assert.Equal(t, core.AssetCash, view.Assets[0].Category)
	assert.Equal(t, core.Rupees(52800), view.Assets[0].CurrentValue)
	assert.Equal(t, core.Rupees(52800+120000+450000+800000+250000), view.NetWorth)

	_, err = store.AddTransaction(core.Transaction{
		Amount: core.Rupees(300), Category: "Food", Description: "Snacks",
		Date: core.NewDate(2023, 12, 22), Type: core.TypeExpense,
	})
	require.NoError(t, err)

	after, err := e.NetWorth(ctx, december)
	require.NoError(t, err)
	assert.Equal(t, core.Rupees(-300).Paise, after.NetWorth.Paise-view.NetWorth.Paise)
}

// mutatingHoldings fires a store mutation on the first asset lookup, landing
// it in the middle of a net worth composition.
type mutatingHoldings struct {
	inner  collab.HoldingsProvider
	once   sync.Once
	mutate func()
}

func (m *mutatingHoldings) GetAssetValue(ctx context.Context, cat core.AssetCategory) (core.Holding, error) {
	m.once.Do(m.mutate)
	return m.inner.GetAssetValue(ctx, cat)
}

func TestNetWorthDerivedFromOneSnapshot(t *testing.T) {
	store := seedStore(t)
	logger := log.New(log.DefaultConfig())
	holdings := &mutatingHoldings{inner: collabmem.NewHoldings()}
	holdings.mutate = func() {
		_, err := store.AddTransaction(core.Transaction{
			Amount: core.Rupees(300), Category: "Food", Description: "Snacks",
			Date: core.NewDate(2023, 12, 22), Type: core.TypeExpense,
		})
		require.NoError(t, err)
	}
	e := New(store, holdings, collabmem.NewContacts(map[string]string{"f1": "Kabir"}), logger, WithClock(decemberClock))
	ctx := context.Background()

	// The mutation lands while the view is being composed. The cached view
	// must describe the snapshot it was derived from, not the store the
	// mutation produced.
	view, err := e.NetWorth(ctx, december)
	require.NoError(t, err)
	assert.Equal(t, core.Rupees(52800), view.Assets[0].CurrentValue)

	after, err := e.NetWorth(ctx, december)
	require.NoError(t, err)
	assert.Equal(t, core.Rupees(52500), after.Assets[0].CurrentValue)
	assert.Equal(t, core.Rupees(-300).Paise, after.NetWorth.Paise-view.NetWorth.Paise)
}

func TestDebtsResolveNames(t *testing.T) {
	store := seedStore(t)
	e := newEngine(t, store)

	debts, err := e.Debts(context.Background())
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, "f1", debts[0].CounterpartyID)
	assert.Equal(t, "Kabir", debts[0].DisplayName)
	assert.Equal(t, core.Rupees(1500), debts[0].NetAmount)
}

func TestDebtsUnknownContactSurfaces(t *testing.T) {
	store := seedStore(t)
	logger := log.New(log.DefaultConfig())
	contacts := collabmem.NewContacts(nil) // no mappings at all
	e := New(store, collabmem.NewHoldings(), contacts, logger, WithClock(decemberClock))

	_, err := e.Debts(context.Background())
	assert.ErrorIs(t, err, collab.ErrContactNotFound)
}

func TestGoals(t *testing.T) {
	store := seedStore(t)
	_, err := store.AddGoal(core.Goal{
		Name: "Japan Trip", TargetAmount: core.Rupees(300000), CurrentAmount: core.Rupees(85000),
		Deadline: core.NewDate(2024, 4, 1), Contributors: []string{"Arjun"},
	})
	require.NoError(t, err)
	e := newEngine(t, store)

	progress := e.Goals(context.Background())
	require.Len(t, progress, 1)
	assert.Equal(t, 28, progress[0].PercentFunded)
	assert.True(t, progress[0].OnTrack)
}

func TestSummary(t *testing.T) {
	store := seedStore(t)
	_, err := store.AddGoal(core.Goal{
		Name: "Japan Trip", TargetAmount: core.Rupees(300000), CurrentAmount: core.Rupees(85000),
		Deadline: core.NewDate(2024, 4, 1), Contributors: []string{"Arjun"},
	})
	require.NoError(t, err)
	e := newEngine(t, store)

	s, err := e.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Rupees(52800), s.Balance)
	assert.Equal(t, core.Rupees(203400), s.ProjectedSurplus90)
	assert.Equal(t, core.Rupees(53500), s.MonthlyFixed)
	require.Len(t, s.Goals, 1)
	assert.Equal(t, 28, s.Goals[0].PercentFunded)
}

func TestSummaryIsOneSnapshot(t *testing.T) {
	store := seedStore(t)
	logger := log.New(log.DefaultConfig())
	contacts := collabmem.NewContacts(map[string]string{"f1": "Kabir"})
	mutated := false
	clock := func() time.Time {
		if !mutated {
			mutated = true
			_, err := store.AddTransaction(core.Transaction{
				Amount: core.Rupees(1000), Category: "Food", Description: "Groceries",
				Date: core.NewDate(2023, 12, 21), Type: core.TypeExpense,
			})
			require.NoError(t, err)
		}
		return decemberClock()
	}
	e := New(store, collabmem.NewHoldings(), contacts, logger, WithClock(clock))

	// The clock fires after the snapshot is taken, so the mutation it
	// injects must not leak into any field of this capture.
	s, err := e.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Rupees(52800), s.Balance)
	assert.Equal(t, core.Rupees(203400), s.ProjectedSurplus90)

	// The next capture sees the mutation in every field at once.
	after, err := e.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Rupees(51800), after.Balance)
	assert.Equal(t, core.Rupees(200400), after.ProjectedSurplus90)
}
