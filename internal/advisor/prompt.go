package advisor

import (
	"fmt"
	"strings"

	"finflow/internal/core"
)

// Snapshot is the consistent financial view captured at ask time. The
// assistant reasons over this frozen state, never over the live store.
type Snapshot struct {
	Balance            core.Money
	ProjectedSurplus90 core.Money
	Goals              []core.GoalProgress
	MonthlyFixed       core.Money
}

// systemContextTemplate fixes the behavioral contract for the reasoning
// service. The principles are part of the product's register and are not
// negotiable at call time.
const systemContextTemplate = `You are a Financial Decision-Support Assistant.
PRINCIPLES:
1. Focus on the PRESENT decision (e.g., "Should I buy this phone?").
2. Explain FORWARD-LOOKING IMPACT for 30, 60, and 90 days.
3. Make trade-offs EXPLICIT (e.g., "X delays your goal Y by 2 weeks").
4. Use reflective questions to slow down impulsive spending.
5. Suggest 2-3 supportive alternatives (delay, reduce, partial pay).
6. Tone: Calm, premium, emotionally safe. No red alerts or shaming.

CURRENT USER DATA:
- Current Balance: %s
- 90-day Projected Surplus: %s
- Active Goals: %s
- Monthly Commitments: %s

RESPONSE FORMAT (JSON):
{
  "intent": "DECISION_ANALYSIS" | "ADD_TRANSACTION" | "CHAT",
  "analysis": "Markdown analysis following the principles",
  "textResponse": "A short, encouraging summary of the analysis",
  "actionableData": {}
}`

// BuildSystemContext serializes the snapshot into the instruction payload
// sent alongside every question.
func BuildSystemContext(snap Snapshot) string {
	goals := make([]string, len(snap.Goals))
	for i, g := range snap.Goals {
		goals[i] = fmt.Sprintf("%s (Target: %s, %d%% funded)", g.Goal.Name, g.Goal.TargetAmount, g.PercentFunded)
	}
	goalList := "none yet"
	if len(goals) > 0 {
		goalList = strings.Join(goals, ", ")
	}
	return fmt.Sprintf(systemContextTemplate,
		snap.Balance, snap.ProjectedSurplus90, goalList, snap.MonthlyFixed)
}
