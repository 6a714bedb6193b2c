package calculation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtanaka/lifeplan/internal/domain"
)

func testEngine(t *testing.T, numPaths int, seed int64) *SimulationEngine {
	t.Helper()
	engine, err := NewSimulationEngine(SimulatorConfig{NumPaths: numPaths, Seed: &seed})
	require.NoError(t, err)
	engine.SetClock(func() time.Time { return fixedNow })
	return engine
}

func TestNewSimulationEngine_RejectsInvalidConfig(t *testing.T) {
	_, err := NewSimulationEngine(SimulatorConfig{NumPaths: 0})
	assert.Error(t, err)
}

func TestSimulationEngine_Run(t *testing.T) {
	engine := testEngine(t, 200, 42)
	goals := []domain.Goal{
		testGoal("Emergency fund", 2000000, 2),
		testGoal("House", 15000000, 12),
	}

	result, err := engine.Run(context.Background(), decimal.NewFromInt(3000000), testPolicy(), goals, 15)
	require.NoError(t, err)

	assert.Len(t, result.TerminalValues, 200)
	assert.Len(t, result.GoalResults, 2)
	assert.Len(t, result.Trajectory, 16)
	assert.NotEmpty(t, result.Recommendations)
	assert.True(t, result.InitialInvestment.Equal(decimal.NewFromInt(3000000)))
	assert.True(t, result.OverallSuccess.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, result.OverallSuccess.LessThanOrEqual(hundred))
}

func TestSimulationEngine_RunPropagatesSimulatorErrors(t *testing.T) {
	engine := testEngine(t, 10, 1)
	bad := testPolicy()
	bad.Volatility = decimal.NewFromInt(-5)

	_, err := engine.Run(context.Background(), decimal.NewFromInt(1000000), bad, nil, 10)
	assert.Error(t, err)
}

func TestMeanProbability(t *testing.T) {
	assert.True(t, meanProbability(nil).Equal(hundred), "no goals means nothing at risk")

	results := []domain.GoalResult{
		goalResult("A", 1000000, 80),
		goalResult("B", 9000000, 40),
	}
	// Unweighted: target amounts are irrelevant here.
	assert.True(t, meanProbability(results).Equal(decimal.NewFromInt(60)))
}

func TestRecommendations(t *testing.T) {
	engine := testEngine(t, 10, 1)
	policy := testPolicy() // 100,000/month savings

	t.Run("all on track", func(t *testing.T) {
		results := []domain.GoalResult{
			goalResult("A", 1000000, 90),
			goalResult("B", 2000000, 85),
		}
		recommendations := engine.Recommendations(results, policy)
		require.Len(t, recommendations, 1)
		assert.Equal(t, "All goals are on track. Maintain the current plan.", recommendations[0])
	})

	t.Run("at-risk goal needing more savings", func(t *testing.T) {
		atRisk := goalResult("House", 20000000, 45)
		atRisk.ContributionNeeded = decimal.NewFromInt(175000)
		recommendations := engine.Recommendations([]domain.GoalResult{atRisk}, policy)
		require.Len(t, recommendations, 1)
		assert.Contains(t, recommendations[0], "increasing the monthly contribution by ¥75,000")
		assert.Contains(t, recommendations[0], `"House"`)
	})

	t.Run("at-risk goal already saving enough gets the fallback", func(t *testing.T) {
		atRisk := goalResult("House", 20000000, 45)
		atRisk.ContributionNeeded = decimal.NewFromInt(50000) // below MonthlySavings
		recommendations := engine.Recommendations([]domain.GoalResult{atRisk}, policy)
		require.Len(t, recommendations, 1)
		assert.Equal(t, "Consider revisiting risk tolerance or adjusting target amounts.", recommendations[0])
	})

	t.Run("middle band goals produce the fallback", func(t *testing.T) {
		// 70-85%: not at risk, not on track.
		results := []domain.GoalResult{goalResult("A", 1000000, 78)}
		recommendations := engine.Recommendations(results, policy)
		require.Len(t, recommendations, 1)
		assert.Equal(t, "Consider revisiting risk tolerance or adjusting target amounts.", recommendations[0])
	})
}

func TestSensitivityAnalysis(t *testing.T) {
	engine := testEngine(t, 200, 42)
	policy := testPolicy()

	result, err := engine.SensitivityAnalysis(context.Background(),
		decimal.NewFromInt(1000000), decimal.NewFromInt(20000000), policy, 10)
	require.NoError(t, err)

	require.Len(t, result.ReturnSensitivity, 5)
	require.Len(t, result.ContributionSensitivity, 5)

	expectedReturns := []float64{2, 4, 6, 8, 10}
	for i, point := range result.ReturnSensitivity {
		assert.InDelta(t, expectedReturns[i], point.Parameter.InexactFloat64(), 1e-9)
		assert.True(t, point.Probability.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, point.Probability.LessThanOrEqual(hundred))
	}

	expectedContributions := []int64{30000, 50000, 70000, 100000, 150000}
	for i, point := range result.ContributionSensitivity {
		assert.True(t, point.Parameter.Equal(decimal.NewFromInt(expectedContributions[i])))
	}

	// Sweeping contributions up, with the same seed per run, cannot reduce
	// the success probability.
	for i := 1; i < len(result.ContributionSensitivity); i++ {
		assert.True(t, result.ContributionSensitivity[i].Probability.
			GreaterThanOrEqual(result.ContributionSensitivity[i-1].Probability))
	}
}

func TestSensitivityAnalysis_PropagatesErrors(t *testing.T) {
	engine := testEngine(t, 10, 1)
	bad := testPolicy()
	bad.Volatility = decimal.NewFromInt(-1)

	_, err := engine.SensitivityAnalysis(context.Background(),
		decimal.NewFromInt(1000000), decimal.NewFromInt(1000000), bad, 10)
	assert.Error(t, err)
}
