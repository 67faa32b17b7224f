package main

import (
	"time"

	"finflow/internal/collab"
	"finflow/internal/collab/memory"
	"finflow/internal/core"
)

// demoContacts mirrors the contact directory the demo transactions refer to.
func demoContacts() *memory.Contacts {
	return memory.NewContacts(map[string]string{
		"f1": "Kabir",
		"f2": "Meera",
		"f3": "Sana",
	})
}

// demoState builds the starter dataset for a fresh install: a calibrated
// couple profile, one month of ledger activity, and two goals in flight.
func demoState() collab.State {
	now := time.Now()
	period := core.CurrentPeriod(now)
	day := func(d int) core.Date { return core.NewDate(period.Year, period.Month, d) }

	// Newest first, matching ledger order.
	txs := []core.Transaction{
		{
			ID: "seed-tx-6", Type: core.TypeP2PPayment, Amount: core.Rupees(1500),
			Category: "Friends", Description: "Dinner split with Kabir",
			Date: day(12), FriendID: "f1",
		},
		{
			ID: "seed-tx-5", Type: core.TypeExpense, Amount: core.Rupees(2200),
			Category: "Food", Description: "Groceries", Date: day(9),
		},
		{
			ID: "seed-tx-4", Type: core.TypeInvestment, Amount: core.Rupees(15000),
			Category: "SIP", Description: "Monthly SIP", Date: day(5),
			AssetType: core.AssetSIP, IsRecurring: true,
		},
		{
			ID: "seed-tx-3", Type: core.TypeEMI, Amount: core.Rupees(28500),
			Category: "Home Loan", Description: "Home loan EMI", Date: day(3),
			IsRecurring: true,
		},
		{
			ID: "seed-tx-2", Type: core.TypeExpense, Amount: core.Rupees(25000),
			Category: "Rent", Description: "House rent", Date: day(2),
			IsRecurring: true,
		},
		{
			ID: "seed-tx-1", Type: core.TypeIncome, Amount: core.Rupees(125000),
			Category: "Salary", Description: "Monthly salary", Date: day(1),
			IsRecurring: true,
		},
	}

	return collab.State{
		Transactions: txs,
		Profile: &core.CalibrationProfile{
			DisplayName:   "Arjun",
			PartnerName:   "Riya",
			MonthlyIncome: core.Rupees(125000),
			MonthlyFixed:  core.Rupees(53500),
			SavingsTarget: core.Rupees(30000),
		},
		Goals: []core.Goal{
			{
				ID: "seed-goal-1", Name: "Japan Trip",
				TargetAmount:  core.Rupees(300000),
				CurrentAmount: core.Rupees(84000),
				Deadline:      core.NewDate(period.Year+1, 10, 1),
				Icon:          "plane", Color: "#e11d48",
				Contributors: []string{"Riya"},
			},
			{
				ID: "seed-goal-2", Name: "Emergency Fund",
				TargetAmount:  core.Rupees(600000),
				CurrentAmount: core.Rupees(150000),
				Deadline:      core.NewDate(period.Year+2, 1, 1),
				Icon:          "shield", Color: "#0ea5e9",
			},
		},
	}
}
