package core

import "time"

// GoalProgress is the derived funding view of one goal.
type GoalProgress struct {
	Goal          Goal
	PercentFunded int // clamped to [0, 100]
	OnTrack       bool
}

// PacingPolicy decides whether a goal counts as on track. It is a strategy
// hook: the flat threshold default below is a placeholder heuristic, and
// callers with a real pacing model can swap in their own.
type PacingPolicy interface {
	OnTrack(g Goal, percentFunded int, now time.Time) bool
}

// ThresholdPolicy marks a goal on track once funding passes a flat
// percentage. The zero value uses the default 20% threshold.
type ThresholdPolicy struct {
	Percent int
}

func (p ThresholdPolicy) OnTrack(_ Goal, percentFunded int, _ time.Time) bool {
	threshold := p.Percent
	if threshold == 0 {
		threshold = 20
	}
	return percentFunded > threshold
}

// DeadlinePacePolicy compares funding against linear progress toward the
// deadline: a goal 40% through its runway should be at least 40% funded.
// Goals past their deadline are on track only when fully funded.
type DeadlinePacePolicy struct {
	// Start anchors the runway. Zero means one year before the deadline.
	Start Date
}

func (p DeadlinePacePolicy) OnTrack(g Goal, percentFunded int, now time.Time) bool {
	start := p.Start.Time
	if p.Start.IsZero() {
		start = g.Deadline.AddDate(-1, 0, 0)
	}
	total := g.Deadline.Sub(start)
	if total <= 0 {
		return percentFunded >= 100
	}
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return true
	}
	if elapsed >= total {
		return percentFunded >= 100
	}
	expected := int(elapsed * 100 / total)
	return percentFunded >= expected
}

// PercentFunded computes the funding percentage of a goal, half-up rounded
// and clamped to [0, 100]. CurrentAmount may exceed the target (clamps to
// 100) or be negative after a correction (clamps to 0).
func PercentFunded(g Goal) int {
	if g.TargetAmount.Paise <= 0 {
		return 0
	}
	if g.CurrentAmount.Paise <= 0 {
		return 0
	}
	pct := (g.CurrentAmount.Paise*100 + g.TargetAmount.Paise/2) / g.TargetAmount.Paise
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// TrackGoals derives progress for each goal under the given pacing policy.
// A nil policy falls back to the default threshold.
func TrackGoals(goals []Goal, policy PacingPolicy, now time.Time) []GoalProgress {
	if policy == nil {
		policy = ThresholdPolicy{}
	}
	out := make([]GoalProgress, len(goals))
	for i, g := range goals {
		pct := PercentFunded(g)
		out[i] = GoalProgress{
			Goal:          g,
			PercentFunded: pct,
			OnTrack:       policy.OnTrack(g, pct, now),
		}
	}
	return out
}
