package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPriorityWeight(t *testing.T) {
	assert.Equal(t, 3, PriorityHigh.Weight())
	assert.Equal(t, 2, PriorityMedium.Weight())
	assert.Equal(t, 1, PriorityLow.Weight())
	assert.Equal(t, 1, Priority("whenever").Weight(), "unknown priorities weigh like low")
}

func TestGoalMonthsRemaining(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		target   time.Time
		expected int
	}{
		{"same month", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 0},
		{"next month", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 1},
		{"across a year boundary", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), 8},
		{"five years out", time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), 60},
		{"past due", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), -6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{TargetDate: tt.target}
			assert.Equal(t, tt.expected, g.MonthsRemaining(now))
		})
	}
}

func TestGoalYearsToTarget(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	g := Goal{TargetDate: now.AddDate(0, 0, 365)}
	assert.InDelta(t, 1.0, g.YearsToTarget(now), 1e-9)

	g = Goal{TargetDate: now.AddDate(0, 0, 182)}
	assert.InDelta(t, 0.4986, g.YearsToTarget(now), 0.001)

	g = Goal{TargetDate: now.AddDate(-1, 0, 0)}
	assert.Equal(t, 0.0, g.YearsToTarget(now), "past dates floor at zero")
}

func TestPlanEffectivePolicy(t *testing.T) {
	plan := &Plan{}
	assert.True(t, plan.EffectivePolicy().AnnualReturn.Equal(decimal.NewFromFloat(5.0)),
		"plans without a policy use the default assumptions")

	declared := DefaultPolicy()
	declared.MonthlySavings = decimal.NewFromInt(250000)
	plan.Policy = &declared
	assert.True(t, plan.EffectivePolicy().MonthlySavings.Equal(decimal.NewFromInt(250000)))
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()
	assert.True(t, policy.TaxAdvantaged)
	assert.True(t, policy.Volatility.Equal(decimal.NewFromFloat(15.0)))
	assert.True(t, policy.InflationRate.Equal(decimal.NewFromFloat(2.0)))
	assert.True(t, policy.MonthlySavings.Equal(decimal.NewFromInt(100000)))
}
