// Package memory provides in-process collaborator implementations seeded
// with static demo data, for running without external holdings or contacts
// services.
package memory

import (
	"context"
	"fmt"
	"sync"

	"finflow/internal/collab"
	"finflow/internal/core"
)

// Holdings serves static seed values for the non-Cash categories. Stands in
// for a real holdings-tracking service.
type Holdings struct {
	mu     sync.Mutex
	values map[core.AssetCategory]core.Holding
}

// NewHoldings creates a holdings stub with the demo seed portfolio.
func NewHoldings() *Holdings {
	const seedGrowth = 11.2
	return &Holdings{values: map[core.AssetCategory]core.Holding{
		core.AssetSIP:         {CurrentValue: core.Rupees(120000), GrowthRatePercent: seedGrowth},
		core.AssetShares:      {CurrentValue: core.Rupees(450000), GrowthRatePercent: seedGrowth},
		core.AssetMutualFunds: {CurrentValue: core.Rupees(800000), GrowthRatePercent: seedGrowth},
		core.AssetGold:        {CurrentValue: core.Rupees(250000), GrowthRatePercent: seedGrowth},
	}}
}

// GetAssetValue implements collab.HoldingsProvider. Unknown categories
// report a zero holding rather than failing: the composer owns the category
// set.
func (h *Holdings) GetAssetValue(_ context.Context, category core.AssetCategory) (core.Holding, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.values[category], nil
}

// SetAssetValue replaces one category's position. Used by tests and demos.
func (h *Holdings) SetAssetValue(category core.AssetCategory, holding core.Holding) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values[category] = holding
}

// Contacts is an in-memory id-to-name directory.
type Contacts struct {
	mu    sync.Mutex
	names map[string]string
}

// NewContacts creates a directory with the given id-to-name mapping.
func NewContacts(names map[string]string) *Contacts {
	copied := make(map[string]string, len(names))
	for id, name := range names {
		copied[id] = name
	}
	return &Contacts{names: copied}
}

// ResolveName implements collab.ContactsDirectory.
func (c *Contacts) ResolveName(_ context.Context, friendID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.names[friendID]
	if !ok {
		return "", fmt.Errorf("resolve %q: %w", friendID, collab.ErrContactNotFound)
	}
	return name, nil
}

// Add registers or renames a contact.
func (c *Contacts) Add(friendID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[friendID] = name
}

// Persistence keeps the last committed state in memory. Useful for tests
// and for running the server without SQLite.
type Persistence struct {
	mu    sync.Mutex
	state collab.State
}

// NewPersistence creates an empty in-memory persistence collaborator.
func NewPersistence() *Persistence {
	return &Persistence{}
}

// LoadState implements collab.Persistence.
func (p *Persistence) LoadState(_ context.Context) (collab.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyState(p.state), nil
}

// SaveState implements collab.Persistence.
func (p *Persistence) SaveState(_ context.Context, s collab.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = copyState(s)
	return nil
}

func copyState(s collab.State) collab.State {
	out := collab.State{
		Transactions: append([]core.Transaction(nil), s.Transactions...),
		Goals:        make([]core.Goal, len(s.Goals)),
	}
	if s.Profile != nil {
		profile := *s.Profile
		out.Profile = &profile
	}
	for i, g := range s.Goals {
		g.Contributors = append([]string(nil), g.Contributors...)
		out.Goals[i] = g
	}
	return out
}
