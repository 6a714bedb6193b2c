package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// Probability bands used when generating recommendations.
var (
	atRiskThreshold  = decimal.NewFromInt(70)
	onTrackThreshold = decimal.NewFromInt(85)
)

// SimulationEngine orchestrates a full planning run: whole-horizon Monte
// Carlo, the charting trajectory, per-goal evaluation, and recommendations.
// All inputs are materialized before the run starts; the engine performs no
// I/O.
type SimulationEngine struct {
	simulator *PathSimulator
	evaluator *GoalEvaluator
	logger    Logger
}

// NewSimulationEngine creates an engine with the given simulator
// configuration.
func NewSimulationEngine(config SimulatorConfig) (*SimulationEngine, error) {
	simulator, err := NewPathSimulator(config)
	if err != nil {
		return nil, err
	}
	return &SimulationEngine{
		simulator: simulator,
		evaluator: NewGoalEvaluator(simulator),
		logger:    nopLogger{},
	}, nil
}

// SetLogger attaches a logger to the engine and its components.
func (se *SimulationEngine) SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	se.logger = l
	se.simulator.SetLogger(l)
	se.evaluator.SetLogger(l)
}

// SetClock overrides the engine clock for reproducible fixtures.
func (se *SimulationEngine) SetClock(now func() time.Time) {
	se.evaluator.SetClock(now)
}

// Simulator exposes the underlying path simulator.
func (se *SimulationEngine) Simulator() *PathSimulator { return se.simulator }

// Evaluator exposes the underlying goal evaluator.
func (se *SimulationEngine) Evaluator() *GoalEvaluator { return se.evaluator }

// Run executes the full simulation over horizonYears and evaluates every
// goal at its own horizon.
func (se *SimulationEngine) Run(ctx context.Context, initialValue decimal.Decimal, policy domain.FundingPolicy, goals []domain.Goal, horizonYears int) (*domain.SimulationResult, error) {
	terminalValues, err := se.simulator.Simulate(ctx, initialValue, policy, horizonYears)
	if err != nil {
		return nil, fmt.Errorf("running simulation: %w", err)
	}

	trajectory, err := se.simulator.Trajectory(ctx, initialValue, policy, horizonYears)
	if err != nil {
		return nil, fmt.Errorf("computing trajectory: %w", err)
	}

	goalResults, err := se.evaluator.EvaluateAll(ctx, goals, policy, initialValue)
	if err != nil {
		return nil, err
	}

	return &domain.SimulationResult{
		SimulationDate:    time.Now(),
		InitialInvestment: initialValue,
		Policy:            policy,
		TerminalValues:    terminalValues,
		GoalResults:       goalResults,
		OverallSuccess:    meanProbability(goalResults),
		Trajectory:        trajectory,
		Recommendations:   se.Recommendations(goalResults, policy),
	}, nil
}

// meanProbability is the unweighted mean of per-goal probabilities, 100 when
// there are no goals. The weighted figure lives in PortfolioAggregator.
func meanProbability(results []domain.GoalResult) decimal.Decimal {
	if len(results) == 0 {
		return hundred
	}
	sum := decimal.Zero
	for _, r := range results {
		sum = sum.Add(r.SuccessProbability)
	}
	return sum.Div(decimal.NewFromInt(int64(len(results))))
}

// Recommendations emits actionable advice: contribution increases for goals
// under 70% probability, a keep-course message when everything sits at 85%
// or better.
func (se *SimulationEngine) Recommendations(results []domain.GoalResult, policy domain.FundingPolicy) []string {
	var recommendations []string
	onTrack := 0

	for _, r := range results {
		if r.SuccessProbability.GreaterThanOrEqual(onTrackThreshold) {
			onTrack++
			continue
		}
		if r.SuccessProbability.LessThan(atRiskThreshold) && r.ContributionNeeded.GreaterThan(policy.MonthlySavings) {
			diff := r.ContributionNeeded.Sub(policy.MonthlySavings)
			recommendations = append(recommendations,
				fmt.Sprintf("Consider increasing the monthly contribution by ¥%s to stay on track for %q", groupDigits(diff.InexactFloat64()), r.GoalName))
		}
	}

	if len(recommendations) == 0 {
		if onTrack > 0 {
			recommendations = append(recommendations, "All goals are on track. Maintain the current plan.")
		} else {
			recommendations = append(recommendations, "Consider revisiting risk tolerance or adjusting target amounts.")
		}
	}
	return recommendations
}
