package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// Planner produces the deterministic per-goal progress records used when a
// full Monte Carlo run is not requested. It is the simplified single-point
// path: the probability it reports is the progress percentage, nothing more.
type Planner struct {
	projector *AnnuityProjector
	now       func() time.Time
}

// NewPlanner creates a deterministic planner.
func NewPlanner() *Planner {
	return &Planner{
		projector: NewAnnuityProjector(),
		now:       time.Now,
	}
}

// SetClock overrides the planning clock for reproducible fixtures.
func (p *Planner) SetClock(now func() time.Time) {
	if now != nil {
		p.now = now
	}
}

// GoalProgress projects every goal with the annuity closed form. Goals
// without an explicit monthly contribution share the policy's monthly
// savings evenly.
func (p *Planner) GoalProgress(goals []domain.Goal, policy domain.FundingPolicy) []domain.GoalResult {
	now := p.now()
	fallback := evenSplit(policy.MonthlySavings, len(goals))

	results := make([]domain.GoalResult, 0, len(goals))
	for _, goal := range goals {
		contribution := fallback
		if goal.MonthlyContribution != nil {
			contribution = *goal.MonthlyContribution
		}
		months := goal.MonthsRemaining(now)
		projection := p.projector.Project(goal.TargetAmount, goal.FundedAmount, contribution, months, policy.AnnualReturn)

		results = append(results, domain.GoalResult{
			GoalID:             goal.ID,
			GoalName:           goal.Name,
			TargetAmount:       goal.TargetAmount,
			TargetDate:         goal.TargetDate,
			FundedAmount:       goal.FundedAmount,
			MonthsRemaining:    months,
			ProgressPct:        projection.ProgressPct,
			ProjectedAmount:    projection.ProjectedAmount,
			Shortfall:          projection.Shortfall,
			SuccessProbability: projection.Probability,
		})
	}
	return results
}

// evenSplit divides the portfolio-level monthly savings across open goals.
func evenSplit(monthlySavings decimal.Decimal, goalCount int) decimal.Decimal {
	if goalCount < 1 {
		goalCount = 1
	}
	return monthlySavings.Div(decimal.NewFromInt(int64(goalCount)))
}
