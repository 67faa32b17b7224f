package core

// Holding is an externally maintained position in one asset category.
type Holding struct {
	CurrentValue      Money
	GrowthRatePercent float64
}

// NetWorthView is the merged asset breakdown plus its total.
type NetWorthView struct {
	Assets   []Asset
	NetWorth Money
}

// ComposeNetWorth merges the ledger-derived cash position with externally
// tracked holdings into one view over the fixed category set. Cash is always
// the live ledger balance with zero growth (cash does not appreciate);
// every other category takes whatever the holdings collaborator reported,
// defaulting to zero when a category is absent.
func ComposeNetWorth(balance Money, holdings map[AssetCategory]Holding) NetWorthView {
	view := NetWorthView{Assets: make([]Asset, 0, len(AssetCategories))}
	for _, cat := range AssetCategories {
		a := Asset{Category: cat}
		if cat == AssetCash {
			a.CurrentValue = balance
		} else if h, ok := holdings[cat]; ok {
			a.CurrentValue = h.CurrentValue
			a.GrowthRatePercent = h.GrowthRatePercent
		}
		view.Assets = append(view.Assets, a)
		view.NetWorth.Paise += a.CurrentValue.Paise
	}
	return view
}
