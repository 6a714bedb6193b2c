package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalResult is the per-goal outcome of an evaluation run.
//
// SuccessProbability is the fraction of sample paths meeting the target,
// expressed 0-100. In the deterministic annuity path it is the same number
// as ProgressPct: that path carries no confidence model, only a single-point
// estimate, and the duplication is deliberate.
type GoalResult struct {
	GoalID             uuid.UUID       `json:"goalId"`
	GoalName           string          `json:"goalName"`
	TargetAmount       decimal.Decimal `json:"targetAmount"`
	TargetDate         time.Time       `json:"targetDate"`
	FundedAmount       decimal.Decimal `json:"fundedAmount"`
	MonthsRemaining    int             `json:"monthsRemaining"`
	ProgressPct        decimal.Decimal `json:"progressPct"`        // clamped to [0,100]
	ProjectedAmount    decimal.Decimal `json:"projectedAmount"`    // deterministic FV or sampled median
	Shortfall          decimal.Decimal `json:"shortfall"`          // max(0, target - projected)
	SuccessProbability decimal.Decimal `json:"successProbability"` // 0-100
	Percentile10       decimal.Decimal `json:"percentile10"`
	Percentile90       decimal.Decimal `json:"percentile90"`
	ContributionNeeded decimal.Decimal `json:"monthlyContributionNeeded"`
	GapAnalysis        string          `json:"gapAnalysis"`
}

// PortfolioSummary aggregates all goal results for a portfolio.
// OverallProbability is the target-amount-weighted mean of per-goal
// probabilities; with no goals there is no risk, so it is 100 by convention.
type PortfolioSummary struct {
	OverallProbability decimal.Decimal `json:"overallProbability"`
	TotalGoals         int             `json:"totalGoals"`
	TotalTarget        decimal.Decimal `json:"totalTarget"`
	TotalProjected     decimal.Decimal `json:"totalProjected"`
	Goals              []GoalResult    `json:"goals,omitempty"`
}

// TrajectoryPoint is one year on the median projection curve used for
// charting.
type TrajectoryPoint struct {
	Year        int             `json:"year"`
	Date        int             `json:"date"` // calendar year
	MedianValue decimal.Decimal `json:"value"`
}

// SimulationResult is the full output of a Monte Carlo run: the terminal
// value of every sample path plus the reduced-resolution median trajectory.
// It is ephemeral and never persisted by the core.
type SimulationResult struct {
	SimulationDate    time.Time         `json:"simulationDate"`
	InitialInvestment decimal.Decimal   `json:"initialInvestment"`
	Policy            FundingPolicy     `json:"params"`
	TerminalValues    []float64         `json:"projectedValues"`
	GoalResults       []GoalResult      `json:"goalResults"`
	OverallSuccess    decimal.Decimal   `json:"overallSuccessRate"`
	Trajectory        []TrajectoryPoint `json:"roadmapTrajectory"`
	Recommendations   []string          `json:"recommendations"`
}

// NetPosition is assets minus current debt minus unfunded future goal costs.
type NetPosition struct {
	TotalAssets     decimal.Decimal `json:"totalAssets"`
	CurrentDebt     decimal.Decimal `json:"currentDebt"`
	FutureGoalCosts decimal.Decimal `json:"futureLifeEventCosts"`
	NetPosition     decimal.Decimal `json:"netPosition"`
}

// BudgetItem is one goal-derived savings line in a proposed monthly budget.
type BudgetItem struct {
	Category       string          `json:"category"`
	ProposedAmount decimal.Decimal `json:"proposedAmount"`
	DerivedFrom    string          `json:"derivedFrom"`
	Month          string          `json:"month"`
}
