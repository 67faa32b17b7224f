package core

// NetDebts folds the full ledger into one signed balance per counterparty
// ever referenced by a peer transfer. Payments the user made increase the
// balance (the counterparty owes the user), receipts decrease it.
//
// The ledger is kept newest-first, so the first matching transaction seen
// for a counterparty is its most recent activity; LastActivityDate is fixed
// at entry creation and insertion order, not date parsing, governs recency.
// Output order is first-appearance order, which keeps the result
// deterministic.
func NetDebts(txs []Transaction) []DebtBalance {
	index := make(map[string]int)
	out := make([]DebtBalance, 0)
	for _, tx := range txs {
		if !tx.Type.IsPeerTransfer() || tx.FriendID == "" {
			continue
		}
		i, seen := index[tx.FriendID]
		if !seen {
			i = len(out)
			index[tx.FriendID] = i
			out = append(out, DebtBalance{
				CounterpartyID:   tx.FriendID,
				LastActivityDate: tx.Date,
			})
		}
		switch tx.Type {
		case TypeP2PPayment:
			out[i].NetAmount.Paise += tx.Amount.Paise
		case TypeP2PReceive:
			out[i].NetAmount.Paise -= tx.Amount.Paise
		}
	}
	return out
}
