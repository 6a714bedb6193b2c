package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtanaka/lifeplan/internal/domain"
)

func testPlan() *domain.Plan {
	date := func(y, m int) time.Time { return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC) }
	return &domain.Plan{
		Portfolio: domain.PortfolioDetails{
			Name:         "Family",
			CurrentValue: decimal.NewFromInt(3000000),
		},
		Goals: []domain.Goal{
			{Name: "Zeta trip", TargetDate: date(2030, 6), TargetAmount: decimal.NewFromInt(500000)},
			{Name: "Alpha fund", TargetDate: date(2030, 6), TargetAmount: decimal.NewFromInt(800000)},
			{Name: "Car", TargetDate: date(2028, 1), TargetAmount: decimal.NewFromInt(2000000)},
		},
		Simulation: domain.SimulationSettings{NumPaths: 500, HorizonYears: 20},
	}
}

func TestFileStore_ListGoalsOrdering(t *testing.T) {
	fs := NewFileStore(testPlan())

	goals, err := fs.ListGoals("")
	require.NoError(t, err)
	require.Len(t, goals, 3)

	// Date first, then name as the tiebreaker.
	assert.Equal(t, "Car", goals[0].Name)
	assert.Equal(t, "Alpha fund", goals[1].Name)
	assert.Equal(t, "Zeta trip", goals[2].Name)
}

func TestFileStore_ListGoalsDoesNotMutatePlan(t *testing.T) {
	plan := testPlan()
	fs := NewFileStore(plan)

	_, err := fs.ListGoals("")
	require.NoError(t, err)
	assert.Equal(t, "Zeta trip", plan.Goals[0].Name, "the plan's own slice keeps its order")
}

func TestFileStore_ResolvesPortfolioName(t *testing.T) {
	fs := NewFileStore(testPlan())

	_, err := fs.ListGoals("Family")
	assert.NoError(t, err)

	_, err = fs.ListGoals("Someone else")
	assert.Error(t, err)

	_, err = fs.GetPolicy("Someone else")
	assert.Error(t, err)

	_, err = fs.GetCurrentValue("Someone else")
	assert.Error(t, err)
}

func TestFileStore_GetPolicyFallsBackToDefaults(t *testing.T) {
	fs := NewFileStore(testPlan())

	policy, err := fs.GetPolicy("")
	require.NoError(t, err)
	assert.True(t, policy.AnnualReturn.Equal(domain.DefaultPolicy().AnnualReturn))
}

func TestFileStore_GetPolicyPrefersDeclaredPolicy(t *testing.T) {
	plan := testPlan()
	declared := domain.DefaultPolicy()
	declared.AnnualReturn = decimal.NewFromFloat(7.5)
	plan.Policy = &declared

	policy, err := NewFileStore(plan).GetPolicy("")
	require.NoError(t, err)
	assert.True(t, policy.AnnualReturn.Equal(decimal.NewFromFloat(7.5)))
}

func TestFileStore_GetCurrentValue(t *testing.T) {
	fs := NewFileStore(testPlan())

	value, err := fs.GetCurrentValue("")
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(3000000)))
}
