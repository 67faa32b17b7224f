package core

// Projection is the linear 30/60/90-day surplus forecast.
type Projection struct {
	Surplus30 Money
	Surplus60 Money
	Surplus90 Money
}

// Project forecasts the monthly surplus from the calibration profile and the
// observed variable spend of the current period.
//
// When no variable spend has been recorded yet, a buffer of 15% of the
// calibrated income stands in for it. This deliberately conflates "no data
// yet" with "spends nothing": the profile is the source of truth so a user
// sees a meaningful forecast before any ledger data exists. The 15% division
// floors, which is exact for paise-aligned incomes.
//
// A nil profile yields a zero projection.
func Project(profile *CalibrationProfile, variable Money) Projection {
	if profile == nil {
		return Projection{}
	}
	assumedVariable := variable.Paise
	if assumedVariable <= 0 {
		assumedVariable = profile.MonthlyIncome.Paise * 15 / 100
	}
	monthly := profile.MonthlyIncome.Paise - profile.MonthlyFixed.Paise - assumedVariable
	return Projection{
		Surplus30: Money{Paise: monthly},
		Surplus60: Money{Paise: monthly * 2},
		Surplus90: Money{Paise: monthly * 3},
	}
}
