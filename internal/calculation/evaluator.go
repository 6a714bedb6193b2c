package calculation

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// contributionSafetyMargin inflates the target before solving for the
// required monthly payment. This is a deliberately conservative planning
// stance, not a statistical percentile solve.
const contributionSafetyMargin = 1.3

// GoalEvaluator turns simulated terminal-value distributions into per-goal
// success metrics.
type GoalEvaluator struct {
	simulator *PathSimulator
	logger    Logger
	now       func() time.Time
}

// NewGoalEvaluator creates an evaluator backed by the given simulator.
func NewGoalEvaluator(simulator *PathSimulator) *GoalEvaluator {
	return &GoalEvaluator{
		simulator: simulator,
		logger:    nopLogger{},
		now:       time.Now,
	}
}

// SetLogger attaches a logger.
func (ge *GoalEvaluator) SetLogger(l Logger) {
	if l == nil {
		ge.logger = nopLogger{}
		return
	}
	ge.logger = l
}

// SetClock overrides the evaluation clock. Test fixtures use this to pin
// "today".
func (ge *GoalEvaluator) SetClock(now func() time.Time) {
	if now != nil {
		ge.now = now
	}
}

// Evaluate runs a Monte Carlo simulation restricted to the goal's horizon
// and derives success probability, percentiles and the contribution needed.
func (ge *GoalEvaluator) Evaluate(ctx context.Context, goal domain.Goal, policy domain.FundingPolicy, initialValue decimal.Decimal) (domain.GoalResult, error) {
	now := ge.now()
	years := goal.YearsToTarget(now)

	result := domain.GoalResult{
		GoalID:          goal.ID,
		GoalName:        goal.Name,
		TargetAmount:    goal.TargetAmount,
		TargetDate:      goal.TargetDate,
		FundedAmount:    goal.FundedAmount,
		MonthsRemaining: goal.MonthsRemaining(now),
	}

	if years <= 0 {
		// Past due: nothing left to simulate.
		progress := decimal.Zero
		if goal.TargetAmount.IsPositive() {
			progress = clampPct(goal.FundedAmount.Div(goal.TargetAmount).Mul(hundred))
		}
		result.ProgressPct = progress
		result.ProjectedAmount = goal.FundedAmount
		result.Shortfall = decimal.Max(decimal.Zero, goal.TargetAmount.Sub(goal.FundedAmount))
		result.SuccessProbability = decimal.Zero
		result.Percentile10 = decimal.Zero
		result.Percentile90 = decimal.Zero
		result.ContributionNeeded = decimal.Zero
		result.GapAnalysis = "Goal date has passed"
		return result, nil
	}

	horizon := int(years)
	if horizon < 1 {
		horizon = 1
	}

	values, err := ge.simulator.Simulate(ctx, initialValue, policy, horizon)
	if err != nil {
		return domain.GoalResult{}, fmt.Errorf("simulating goal %q: %w", goal.Name, err)
	}
	ge.applyCapitalGainsTax(values, initialValue, policy, horizon)

	target := goal.TargetAmount.InexactFloat64()
	successes := 0
	for _, v := range values {
		if v >= target {
			successes++
		}
	}
	probability := float64(successes) / float64(len(values)) * 100

	med := median(values)
	progress := decimal.Zero
	if goal.TargetAmount.IsPositive() {
		progress = clampPct(toCurrency(med).Div(goal.TargetAmount).Mul(hundred))
	}

	result.ProgressPct = progress
	result.ProjectedAmount = toCurrency(med)
	result.Shortfall = decimal.Max(decimal.Zero, goal.TargetAmount.Sub(result.ProjectedAmount))
	result.SuccessProbability = decimal.NewFromFloat(probability)
	result.Percentile10 = toCurrency(percentile(values, 10))
	result.Percentile90 = toCurrency(percentile(values, 90))
	result.ContributionNeeded = ge.RequiredContribution(initialValue, goal.TargetAmount, years, policy)
	result.GapAnalysis = gapAnalysis(target, med)

	ge.logger.Debugf("goal %q: probability %.1f%% over %d years", goal.Name, probability, horizon)
	return result, nil
}

// EvaluateAll evaluates every goal against the same policy and starting
// value.
func (ge *GoalEvaluator) EvaluateAll(ctx context.Context, goals []domain.Goal, policy domain.FundingPolicy, initialValue decimal.Decimal) ([]domain.GoalResult, error) {
	results := make([]domain.GoalResult, 0, len(goals))
	for _, goal := range goals {
		result, err := ge.Evaluate(ctx, goal, policy, initialValue)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// applyCapitalGainsTax reduces each terminal value by the policy tax rate
// applied to the gain over the contributed cost basis. Tax-advantaged
// accounts are exempt. Values and basis are both in real terms at this
// point.
func (ge *GoalEvaluator) applyCapitalGainsTax(values []float64, initialValue decimal.Decimal, policy domain.FundingPolicy, horizonYears int) {
	if policy.TaxAdvantaged || !policy.TaxRate.IsPositive() {
		return
	}
	params := newPathParams(initialValue, policy)
	deflator := math.Pow(1+policy.InflationRate.InexactFloat64()/100, float64(horizonYears))
	basis := (params.initial + totalContributions(params, horizonYears*12)) / deflator
	rate := policy.TaxRate.InexactFloat64() / 100

	for i, v := range values {
		if gain := v - basis; gain > 0 {
			values[i] = v - gain*rate
		}
	}
}

// RequiredContribution solves the ordinary-annuity closed form for the
// monthly payment that reaches the target (inflated by the safety margin)
// from the current value over the given horizon.
func (ge *GoalEvaluator) RequiredContribution(initialValue, target decimal.Decimal, years float64, policy domain.FundingPolicy) decimal.Decimal {
	monthlyRate := policy.AnnualReturn.InexactFloat64() / 100 / 12
	months := int(years * 12)
	if months < 1 {
		months = 1
	}

	adjustedTarget := target.InexactFloat64() * contributionSafetyMargin
	fvInitial := initialValue.InexactFloat64() * math.Pow(1+monthlyRate, float64(months))

	requiredFromContributions := adjustedTarget - fvInitial
	if requiredFromContributions <= 0 {
		return decimal.Zero
	}

	var payment float64
	if monthlyRate > 0 {
		factor := (math.Pow(1+monthlyRate, float64(months)) - 1) / monthlyRate
		payment = requiredFromContributions / factor
	} else {
		payment = requiredFromContributions / float64(months)
	}
	if payment < 0 {
		payment = 0
	}
	return decimal.NewFromFloat(payment)
}

// gapAnalysis renders the signed difference between target and median with a
// fixed wording convention: shortfall when the target exceeds the median,
// surplus otherwise.
func gapAnalysis(target, median float64) string {
	gap := target - median
	if gap > 0 {
		return fmt.Sprintf("Median falls short by ¥%s", groupDigits(gap))
	}
	return fmt.Sprintf("On track - median exceeds target by ¥%s", groupDigits(-gap))
}

// groupDigits renders a rounded amount with thousands separators.
func groupDigits(v float64) string {
	s := strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
