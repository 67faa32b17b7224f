package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"finflow/internal/collab"
	"finflow/internal/core"
	"finflow/internal/ledger"
)

// Ledger mutation events carried on the stream.
const (
	EventTransactionAdded = "transaction_added"
	EventProfileUpdated   = "profile_updated"
	EventGoalAdded        = "goal_added"
	EventGoalContribution = "goal_contribution"
	EventGoalInvite       = "goal_invite"
)

// LedgerEventMessage carries one ledger mutation plus the full state after
// it. The consumer persists the embedded state as-is, so replaying only the
// latest message always yields a correct database.
type LedgerEventMessage struct {
	Event          string       `json:"event"`
	LedgerVersion  uint64       `json:"ledgerVersion"`
	ProfileVersion uint64       `json:"profileVersion"`
	GoalsVersion   uint64       `json:"goalsVersion"`
	State          StatePayload `json:"state"`
	Timestamp      time.Time    `json:"timestamp"`
}

type StatePayload struct {
	Transactions []TransactionPayload `json:"transactions"`
	Profile      *ProfilePayload      `json:"profile,omitempty"`
	Goals        []GoalPayload        `json:"goals"`
}

type TransactionPayload struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	AmountPaise int64  `json:"amountPaise"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	AssetType   string `json:"assetType,omitempty"`
	FriendID    string `json:"friendId,omitempty"`
	IsRecurring bool   `json:"isRecurring,omitempty"`
}

type ProfilePayload struct {
	DisplayName        string `json:"displayName"`
	PartnerName        string `json:"partnerName,omitempty"`
	MonthlyIncomePaise int64  `json:"monthlyIncomePaise"`
	MonthlyFixedPaise  int64  `json:"monthlyFixedPaise"`
	SavingsTargetPaise int64  `json:"savingsTargetPaise"`
}

type GoalPayload struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	TargetPaise  int64    `json:"targetPaise"`
	CurrentPaise int64    `json:"currentPaise"`
	Deadline     string   `json:"deadline"`
	Icon         string   `json:"icon,omitempty"`
	Color        string   `json:"color,omitempty"`
	Contributors []string `json:"contributors,omitempty"`
}

// NewLedgerEventMessage builds a message for the given mutation and the
// post-mutation state.
func NewLedgerEventMessage(event string, versions ledger.Versions, state collab.State) *LedgerEventMessage {
	msg := &LedgerEventMessage{
		Event:          event,
		LedgerVersion:  versions.Ledger,
		ProfileVersion: versions.Profile,
		GoalsVersion:   versions.Goals,
		Timestamp:      time.Now(),
	}
	msg.State.Transactions = make([]TransactionPayload, len(state.Transactions))
	for i, t := range state.Transactions {
		msg.State.Transactions[i] = TransactionPayload{
			ID:          t.ID,
			Type:        string(t.Type),
			AmountPaise: t.Amount.Paise,
			Category:    t.Category,
			Description: t.Description,
			Date:        t.Date.String(),
			AssetType:   string(t.AssetType),
			FriendID:    t.FriendID,
			IsRecurring: t.IsRecurring,
		}
	}
	if state.Profile != nil {
		msg.State.Profile = &ProfilePayload{
			DisplayName:        state.Profile.DisplayName,
			PartnerName:        state.Profile.PartnerName,
			MonthlyIncomePaise: state.Profile.MonthlyIncome.Paise,
			MonthlyFixedPaise:  state.Profile.MonthlyFixed.Paise,
			SavingsTargetPaise: state.Profile.SavingsTarget.Paise,
		}
	}
	msg.State.Goals = make([]GoalPayload, len(state.Goals))
	for i, g := range state.Goals {
		msg.State.Goals[i] = GoalPayload{
			ID:           g.ID,
			Name:         g.Name,
			TargetPaise:  g.TargetAmount.Paise,
			CurrentPaise: g.CurrentAmount.Paise,
			Deadline:     g.Deadline.String(),
			Icon:         g.Icon,
			Color:        g.Color,
			Contributors: append([]string(nil), g.Contributors...),
		}
	}
	return msg
}

// ToState converts the embedded payload back to domain state.
func (m *LedgerEventMessage) ToState() (collab.State, error) {
	var state collab.State

	state.Transactions = make([]core.Transaction, len(m.State.Transactions))
	for i, p := range m.State.Transactions {
		date, err := core.ParseDate(p.Date)
		if err != nil {
			return collab.State{}, fmt.Errorf("transaction %s: bad date %q", p.ID, p.Date)
		}
		state.Transactions[i] = core.Transaction{
			ID:          p.ID,
			Type:        core.TransactionType(p.Type),
			Amount:      core.Money{Paise: p.AmountPaise},
			Category:    p.Category,
			Description: p.Description,
			Date:        date,
			AssetType:   core.AssetCategory(p.AssetType),
			FriendID:    p.FriendID,
			IsRecurring: p.IsRecurring,
		}
	}
	if m.State.Profile != nil {
		state.Profile = &core.CalibrationProfile{
			DisplayName:   m.State.Profile.DisplayName,
			PartnerName:   m.State.Profile.PartnerName,
			MonthlyIncome: core.Money{Paise: m.State.Profile.MonthlyIncomePaise},
			MonthlyFixed:  core.Money{Paise: m.State.Profile.MonthlyFixedPaise},
			SavingsTarget: core.Money{Paise: m.State.Profile.SavingsTargetPaise},
		}
	}
	state.Goals = make([]core.Goal, len(m.State.Goals))
	for i, p := range m.State.Goals {
		deadline, err := core.ParseDate(p.Deadline)
		if err != nil {
			return collab.State{}, fmt.Errorf("goal %s: bad deadline %q", p.ID, p.Deadline)
		}
		state.Goals[i] = core.Goal{
			ID:            p.ID,
			Name:          p.Name,
			TargetAmount:  core.Money{Paise: p.TargetPaise},
			CurrentAmount: core.Money{Paise: p.CurrentPaise},
			Deadline:      deadline,
			Icon:          p.Icon,
			Color:         p.Color,
			Contributors:  append([]string(nil), p.Contributors...),
		}
	}
	return state, nil
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
