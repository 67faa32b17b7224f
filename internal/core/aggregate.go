package core

// Totals is the reduction of a transaction set into the four reporting
// buckets. All fields are sums of positive amounts; Balance subtracts the
// outflows from income.
type Totals struct {
	Income     Money
	Fixed      Money
	Variable   Money
	Investment Money
}

// Balance returns income minus all outflow buckets.
func (t Totals) Balance() Money {
	return Money{Paise: t.Income.Paise - t.Fixed.Paise - t.Variable.Paise - t.Investment.Paise}
}

// FilterPeriod selects the transactions whose date falls inside the given
// calendar month, preserving ledger order. A period with no matching
// transactions yields an empty slice, never an error.
func FilterPeriod(txs []Transaction, p Period) []Transaction {
	out := make([]Transaction, 0)
	for _, tx := range txs {
		if tx.Date.In(p) {
			out = append(out, tx)
		}
	}
	return out
}

// Reduce folds a transaction set into Totals.
//
// Classification: income -> income; emi and recurring expenses -> fixed;
// one-off expenses and p2p payments -> variable; investment -> investment.
// p2p receipts are excluded here: they are counterparty repayments, not
// income, and are netted by the debt ledger instead. The fold is a plain
// left-to-right sum, so the result is invariant under reordering.
func Reduce(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch {
		case tx.Type == TypeIncome:
			t.Income.Paise += tx.Amount.Paise
		case tx.Type == TypeEMI, tx.Type == TypeExpense && tx.IsRecurring:
			t.Fixed.Paise += tx.Amount.Paise
		case tx.Type == TypeExpense, tx.Type == TypeP2PPayment:
			t.Variable.Paise += tx.Amount.Paise
		case tx.Type == TypeInvestment:
			t.Investment.Paise += tx.Amount.Paise
		}
	}
	return t
}
