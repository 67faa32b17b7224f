package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func calibrated() *CalibrationProfile {
	return &CalibrationProfile{
		DisplayName:   "Arjun",
		MonthlyIncome: Rupees(125000),
		MonthlyFixed:  Rupees(53500),
		SavingsTarget: Rupees(30000),
	}
}

func TestProjectWithObservedVariable(t *testing.T) {
	p := Project(calibrated(), Rupees(2200))

	// 125000 - 53500 - 2200 = 69300, linearly extrapolated.
	assert.Equal(t, Rupees(69300), p.Surplus30)
	assert.Equal(t, Rupees(138600), p.Surplus60)
	assert.Equal(t, Rupees(207900), p.Surplus90)
}

func TestProjectFallsBackTo15PercentBuffer(t *testing.T) {
	p := Project(calibrated(), Money{})

	// assumedVariable = 15% of 125000 = 18750 exactly;
	// 125000 - 53500 - 18750 = 52750.
	assert.Equal(t, Rupees(52750), p.Surplus30)
	assert.Equal(t, Rupees(105500), p.Surplus60)
	assert.Equal(t, Rupees(158250), p.Surplus90)
}

func TestProjectWithoutProfile(t *testing.T) {
	assert.Equal(t, Projection{}, Project(nil, Rupees(2200)))
}

func TestProjectNegativeSurplus(t *testing.T) {
	profile := &CalibrationProfile{DisplayName: "A", MonthlyIncome: Rupees(50000), MonthlyFixed: Rupees(60000)}
	p := Project(profile, Rupees(5000))
	assert.Equal(t, Rupees(-15000), p.Surplus30)
	assert.Equal(t, Rupees(-45000), p.Surplus90)
}
