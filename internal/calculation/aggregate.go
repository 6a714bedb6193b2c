package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// PortfolioAggregator reduces per-goal results into a whole-portfolio view.
// The reduction is pure and order-independent: the same set of results in
// any order yields the same summary.
type PortfolioAggregator struct{}

// NewPortfolioAggregator creates a new aggregator.
func NewPortfolioAggregator() *PortfolioAggregator {
	return &PortfolioAggregator{}
}

// Aggregate computes the target-amount-weighted mean probability. No goals
// means no risk: the overall probability is 100 by convention, and the same
// convention applies when every target is zero.
func (pa *PortfolioAggregator) Aggregate(results []domain.GoalResult) domain.PortfolioSummary {
	if len(results) == 0 {
		return domain.PortfolioSummary{
			OverallProbability: hundred,
			TotalGoals:         0,
			TotalTarget:        decimal.Zero,
			TotalProjected:     decimal.Zero,
		}
	}

	totalTarget := decimal.Zero
	totalProjected := decimal.Zero
	weightedSum := decimal.Zero
	for _, r := range results {
		totalTarget = totalTarget.Add(r.TargetAmount)
		totalProjected = totalProjected.Add(r.ProjectedAmount)
		weightedSum = weightedSum.Add(r.SuccessProbability.Mul(r.TargetAmount))
	}

	overall := hundred
	if totalTarget.IsPositive() {
		overall = weightedSum.Div(totalTarget).Round(1)
	}

	return domain.PortfolioSummary{
		OverallProbability: overall,
		TotalGoals:         len(results),
		TotalTarget:        totalTarget,
		TotalProjected:     totalProjected,
		Goals:              results,
	}
}

// NetPosition is total assets minus current debt minus the unfunded portion
// of every future goal.
func (pa *PortfolioAggregator) NetPosition(totalAssets, currentDebt decimal.Decimal, goals []domain.Goal) domain.NetPosition {
	futureCosts := decimal.Zero
	for _, g := range goals {
		futureCosts = futureCosts.Add(decimal.Max(decimal.Zero, g.TargetAmount.Sub(g.FundedAmount)))
	}
	return domain.NetPosition{
		TotalAssets:     totalAssets,
		CurrentDebt:     currentDebt,
		FutureGoalCosts: futureCosts,
		NetPosition:     totalAssets.Sub(currentDebt).Sub(futureCosts),
	}
}

// BudgetFromGoals splits the monthly savings figure across goals by priority
// weight (high 3, medium 2, low 1) and emits one proposed budget line per
// goal.
func (pa *PortfolioAggregator) BudgetFromGoals(goals []domain.Goal, monthlySavings decimal.Decimal, month string) []domain.BudgetItem {
	totalWeight := 0
	for _, g := range goals {
		totalWeight += g.Priority.Weight()
	}
	if totalWeight == 0 {
		totalWeight = 1
	}

	items := make([]domain.BudgetItem, 0, len(goals))
	for _, g := range goals {
		weight := decimal.NewFromInt(int64(g.Priority.Weight()))
		allocation := weight.Div(decimal.NewFromInt(int64(totalWeight))).Mul(monthlySavings)
		items = append(items, domain.BudgetItem{
			Category:       fmt.Sprintf("Savings: %s", g.Name),
			ProposedAmount: allocation,
			DerivedFrom:    g.Name,
			Month:          month,
		})
	}
	return items
}
