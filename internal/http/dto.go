package http

import (
	"finflow/internal/core"
	"finflow/internal/engine"
)

// Wire shapes for the JSON API. Money crosses the wire as integer paise so
// clients never see floating point rupees.

type transactionRequest struct {
	Type        string `json:"type"`
	AmountPaise int64  `json:"amountPaise"`
	// Amount is a decimal rupee string ("1234.56"), for form-style clients.
	// When set it takes precedence over AmountPaise.
	Amount      string `json:"amount,omitempty"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	AssetType   string `json:"assetType,omitempty"`
	FriendID    string `json:"friendId,omitempty"`
	IsRecurring bool   `json:"isRecurring,omitempty"`
}

type transactionResponse struct {
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

type profilePayload struct {
	DisplayName        string `json:"displayName"`
	PartnerName        string `json:"partnerName,omitempty"`
	MonthlyIncomePaise int64  `json:"monthlyIncomePaise"`
	MonthlyFixedPaise  int64  `json:"monthlyFixedPaise"`
	SavingsTargetPaise int64  `json:"savingsTargetPaise"`
}

type goalRequest struct {
	Name        string `json:"name"`
	TargetPaise int64  `json:"targetPaise"`
	Deadline    string `json:"deadline"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
}

type goalResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	TargetPaise   int64    `json:"targetPaise"`
	CurrentPaise  int64    `json:"currentPaise"`
	Deadline      string   `json:"deadline"`
	Icon          string   `json:"icon,omitempty"`
	Color         string   `json:"color,omitempty"`
	Contributors  []string `json:"contributors,omitempty"`
	PercentFunded int      `json:"percentFunded"`
	OnTrack       bool     `json:"onTrack"`
}

type contributeRequest struct {
	AmountPaise int64 `json:"amountPaise"`
}

type inviteRequest struct {
	Name string `json:"name"`
}

type overviewResponse struct {
	Period          string `json:"period"`
	IncomePaise     int64  `json:"incomePaise"`
	FixedPaise      int64  `json:"fixedPaise"`
	VariablePaise   int64  `json:"variablePaise"`
	InvestmentPaise int64  `json:"investmentPaise"`
	BalancePaise    int64  `json:"balancePaise"`
}

type projectionResponse struct {
	Surplus30Paise int64 `json:"surplus30Paise"`
	Surplus60Paise int64 `json:"surplus60Paise"`
	Surplus90Paise int64 `json:"surplus90Paise"`
}

type assetResponse struct {
	Category          string  `json:"category"`
	CurrentValuePaise int64   `json:"currentValuePaise"`
	GrowthRatePercent float64 `json:"growthRatePercent"`
}

type netWorthResponse struct {
	TotalPaise int64           `json:"totalPaise"`
	Assets     []assetResponse `json:"assets"`
}

type debtResponse struct {
	CounterpartyID   string `json:"counterpartyId"`
	DisplayName      string `json:"displayName"`
	NetAmountPaise   int64  `json:"netAmountPaise"`
	LastActivityDate string `json:"lastActivityDate"`
}

type askRequest struct {
	FreeText string `json:"freeText"`
}

type askResponse struct {
	Intent         string `json:"intent"`
	Analysis       string `json:"analysis,omitempty"`
	TextResponse   string `json:"textResponse"`
	ActionableData any    `json:"actionableData,omitempty"`
}

type chatTurnResponse struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

func (req transactionRequest) toDomain() (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	paise := req.AmountPaise
	if req.Amount != "" {
		if paise, err = core.ParseDecimalToPaise(req.Amount); err != nil {
			return core.Transaction{}, err
		}
	}
	return core.Transaction{
		Type:        core.TransactionType(req.Type),
		Amount:      core.Money{Paise: paise},
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		AssetType:   core.AssetCategory(req.AssetType),
		FriendID:    req.FriendID,
		IsRecurring: req.IsRecurring,
	}, nil
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
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

func (p profilePayload) toDomain() core.CalibrationProfile {
	return core.CalibrationProfile{
		DisplayName:   p.DisplayName,
		PartnerName:   p.PartnerName,
		MonthlyIncome: core.Money{Paise: p.MonthlyIncomePaise},
		MonthlyFixed:  core.Money{Paise: p.MonthlyFixedPaise},
		SavingsTarget: core.Money{Paise: p.SavingsTargetPaise},
	}
}

func toProfilePayload(p core.CalibrationProfile) profilePayload {
	return profilePayload{
		DisplayName:        p.DisplayName,
		PartnerName:        p.PartnerName,
		MonthlyIncomePaise: p.MonthlyIncome.Paise,
		MonthlyFixedPaise:  p.MonthlyFixed.Paise,
		SavingsTargetPaise: p.SavingsTarget.Paise,
	}
}

func (req goalRequest) toDomain() (core.Goal, error) {
	deadline, err := core.ParseDate(req.Deadline)
	if err != nil {
		return core.Goal{}, err
	}
	return core.Goal{
		Name:         req.Name,
		TargetAmount: core.Money{Paise: req.TargetPaise},
		Deadline:     deadline,
		Icon:         req.Icon,
		Color:        req.Color,
	}, nil
}

func toGoalResponse(p core.GoalProgress) goalResponse {
	return goalResponse{
		ID:            p.Goal.ID,
		Name:          p.Goal.Name,
		TargetPaise:   p.Goal.TargetAmount.Paise,
		CurrentPaise:  p.Goal.CurrentAmount.Paise,
		Deadline:      p.Goal.Deadline.String(),
		Icon:          p.Goal.Icon,
		Color:         p.Goal.Color,
		Contributors:  p.Goal.Contributors,
		PercentFunded: p.PercentFunded,
		OnTrack:       p.OnTrack,
	}
}

func toOverviewResponse(ov engine.Overview) overviewResponse {
	return overviewResponse{
		Period:          ov.Period.String(),
		IncomePaise:     ov.Totals.Income.Paise,
		FixedPaise:      ov.Totals.Fixed.Paise,
		VariablePaise:   ov.Totals.Variable.Paise,
		InvestmentPaise: ov.Totals.Investment.Paise,
		BalancePaise:    ov.Balance.Paise,
	}
}

func toNetWorthResponse(view core.NetWorthView) netWorthResponse {
	resp := netWorthResponse{
		TotalPaise: view.NetWorth.Paise,
		Assets:     make([]assetResponse, len(view.Assets)),
	}
	for i, a := range view.Assets {
		resp.Assets[i] = assetResponse{
			Category:          string(a.Category),
			CurrentValuePaise: a.CurrentValue.Paise,
			GrowthRatePercent: a.GrowthRatePercent,
		}
	}
	return resp
}

func toDebtResponses(entries []engine.DebtEntry) []debtResponse {
	out := make([]debtResponse, len(entries))
	for i, e := range entries {
		out[i] = debtResponse{
			CounterpartyID:   e.CounterpartyID,
			DisplayName:      e.DisplayName,
			NetAmountPaise:   e.NetAmount.Paise,
			LastActivityDate: e.LastActivityDate.String(),
		}
	}
	return out
}
