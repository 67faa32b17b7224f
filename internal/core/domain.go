package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeIncome     TransactionType = "income"
	TypeExpense    TransactionType = "expense"
	TypeInvestment TransactionType = "investment"
	TypeEMI        TransactionType = "emi"
	TypeP2PPayment TransactionType = "p2p_payment"
	TypeP2PReceive TransactionType = "p2p_receive"
)

const (
	AssetCash        AssetCategory = "Cash"
	AssetSIP         AssetCategory = "SIP"
	AssetShares      AssetCategory = "Shares"
	AssetMutualFunds AssetCategory = "Mutual Funds"
	AssetGold        AssetCategory = "Gold"
)

// AssetCategories is the fixed composition order for the net worth view.
var AssetCategories = []AssetCategory{AssetCash, AssetSIP, AssetShares, AssetMutualFunds, AssetGold}

type (
	TransactionType string

	AssetCategory string

	Date struct {
		time.Time
	}

	// Period identifies a calendar month in YYYY-MM form.
	Period struct {
		Year  int
		Month int // 1-12
	}

	// Transaction is an immutable ledger record. FriendID is set exactly
	// when the type is a peer-to-peer transfer.
	Transaction struct {
		ID          string
		Amount      Money
		Category    string
		Description string
		Date        Date
		Type        TransactionType
		AssetType   AssetCategory // optional
		FriendID    string        // optional, p2p only
		IsRecurring bool
	}

	// CalibrationProfile is the user-declared baseline the projection
	// treats as its source of truth, independent of observed spend.
	CalibrationProfile struct {
		DisplayName   string
		PartnerName   string
		MonthlyIncome Money
		MonthlyFixed  Money
		SavingsTarget Money
	}

	Goal struct {
		ID            string
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		Deadline      Date
		Icon          string
		Color         string
		Contributors  []string
	}

	// Asset is one category's slice of the net worth view. Cash is always
	// re-derived from the ledger balance; the rest come from the holdings
	// collaborator.
	Asset struct {
		Category          AssetCategory
		CurrentValue      Money
		GrowthRatePercent float64
	}

	// DebtBalance is the netted position against one counterparty.
	// Positive means the counterparty owes the user.
	DebtBalance struct {
		CounterpartyID   string
		NetAmount        Money
		LastActivityDate Date
	}

	// ChatTurn is one message of the advisory session. Transient: it is
	// never persisted and never feeds back into derivation.
	ChatTurn struct {
		Role      string // "user" or "assistant"
		Text      string
		Timestamp time.Time
	}
)

var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidPeriod         = errors.New("invalid period")
	ErrInvalidType           = errors.New("invalid transaction type")
	ErrInvalidAssetCategory  = errors.New("invalid asset category")
	ErrEmptyCategory         = errors.New("empty category")
	ErrEmptyDescription      = errors.New("empty description")
	ErrDescriptionTooLong    = errors.New("description too long (max 200 characters)")
	ErrCounterpartyRequired  = errors.New("peer transfer requires a counterparty id")
	ErrCounterpartyForbidden = errors.New("counterparty id only valid on peer transfers")
	ErrInvalidTarget         = errors.New("goal target must be positive")
	ErrEmptyName             = errors.New("empty name")
)

// IsPeerTransfer reports whether the type moves money between the user and a
// counterparty rather than between the user's own buckets.
func (t TransactionType) IsPeerTransfer() bool {
	return t == TypeP2PPayment || t == TypeP2PReceive
}

func (t TransactionType) Validate() error {
	switch t {
	case TypeIncome, TypeExpense, TypeInvestment, TypeEMI, TypeP2PPayment, TypeP2PReceive:
		return nil
	default:
		return ErrInvalidType
	}
}

func (c AssetCategory) Validate() error {
	for _, known := range AssetCategories {
		if c == known {
			return nil
		}
	}
	return ErrInvalidAssetCategory
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// In reports whether the date falls inside the given calendar month.
func (d Date) In(p Period) bool {
	return d.Year() == p.Year && int(d.Month()) == p.Month
}

// ParsePeriod parses a YYYY-MM period key.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: t.Year(), Month: int(t.Month())}, nil
}

// CurrentPeriod returns the period containing now.
func CurrentPeriod(now time.Time) Period {
	return Period{Year: now.Year(), Month: int(now.Month())}
}

func (p Period) Validate() error {
	if p.Year < 1 || p.Month < 1 || p.Month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}

func (p Period) String() string {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (tx Transaction) Validate() error {
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(tx.Category)) == 0 {
		return ErrEmptyCategory
	}
	if len(strings.TrimSpace(tx.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(tx.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if tx.AssetType != "" {
		if err := tx.AssetType.Validate(); err != nil {
			return err
		}
	}
	// friendId set <=> peer transfer type
	if tx.Type.IsPeerTransfer() && strings.TrimSpace(tx.FriendID) == "" {
		return ErrCounterpartyRequired
	}
	if !tx.Type.IsPeerTransfer() && tx.FriendID != "" {
		return ErrCounterpartyForbidden
	}
	return nil
}

func (p CalibrationProfile) Validate() error {
	if len(strings.TrimSpace(p.DisplayName)) == 0 {
		return ErrEmptyName
	}
	if p.MonthlyIncome.Paise < 0 || p.MonthlyFixed.Paise < 0 || p.SavingsTarget.Paise < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.TargetAmount.Paise <= 0 {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.Paise < 0 {
		return ErrInvalidAmount
	}
	if err := g.Deadline.Validate(); err != nil {
		return err
	}
	return nil
}

// HasContributor reports whether name is already on the goal.
func (g Goal) HasContributor(name string) bool {
	for _, c := range g.Contributors {
		if c == name {
			return true
		}
	}
	return false
}
