package audit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtanaka/lifeplan/internal/domain"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func goalResult(name string, target int64, probability int64) domain.GoalResult {
	return domain.GoalResult{
		GoalName:           name,
		TargetAmount:       dec(target),
		SuccessProbability: dec(probability),
	}
}

func TestAudit_CheapItemShortCircuitsEverything(t *testing.T) {
	// Runway would be well under 3 months, but the threshold rule fires
	// first: a ¥20,000 item is an ordinary expense no matter what.
	result := NewPurchaseAuditor().Audit(Request{
		ItemName:        "Headphones",
		Price:           dec(20000),
		LiquidAssets:    decPtr(100000),
		MonthlyExpenses: decPtr(50000),
	})

	assert.Equal(t, domain.DecisionGo, result.Decision)
	assert.Contains(t, result.DecisionReason, "below the asset recognition threshold")
}

func TestAudit_RunwayBelowThreeMonthsStops(t *testing.T) {
	// (1,000,000 - 500,000) / 200,000 = 2.5 months.
	result := NewPurchaseAuditor().Audit(Request{
		ItemName:        "Road bike",
		Price:           dec(500000),
		LiquidAssets:    decPtr(1000000),
		MonthlyExpenses: decPtr(200000),
	})

	assert.Equal(t, domain.DecisionStop, result.Decision)
	assert.Contains(t, result.DecisionReason, "below 3 months")
	assert.NotContains(t, result.Alternatives, "No concerns with proceeding")
}

func TestAudit_RunwayBelowSixMonthsWaits(t *testing.T) {
	// (2,100,000 - 1,000,000) / 200,000 = 5.5 months.
	result := NewPurchaseAuditor().Audit(Request{
		ItemName:        "Piano",
		Price:           dec(1000000),
		LifespanYears:   20,
		LiquidAssets:    decPtr(2100000),
		MonthlyExpenses: decPtr(200000),
	})

	assert.Equal(t, domain.DecisionWait, result.Decision)
	assert.Contains(t, result.DecisionReason, "below 6 months")
}

func TestAudit_SevereGoalImpactWaits(t *testing.T) {
	// impact = 300,000/1,000,000*100 = 30 points, reduction = min(15, 20).
	result := NewPurchaseAuditor().Audit(Request{
		ItemName:        "Camera",
		Price:           dec(300000),
		LifespanYears:   10,
		LiquidAssets:    decPtr(10000000),
		MonthlyExpenses: decPtr(200000),
		GoalResults:     []domain.GoalResult{goalResult("Wedding", 1000000, 80)},
	})

	assert.Equal(t, domain.DecisionWait, result.Decision)
	assert.Contains(t, result.DecisionReason, "Wedding")
	require.Len(t, result.TradeOffs, 1)
	assert.True(t, result.TradeOffs[0].ProbabilityChange.Equal(dec(-15)))
	assert.True(t, result.TradeOffs[0].NewProbability.Equal(dec(65)))
}

func TestAudit_HighDailyCostWaits(t *testing.T) {
	// True cost 1,800,000 over 1825 days is about ¥986/day.
	result := NewPurchaseAuditor().Audit(Request{
		ItemName:        "City car",
		Price:           dec(2000000),
		LifespanYears:   5,
		LiquidAssets:    decPtr(10000000),
		MonthlyExpenses: decPtr(200000),
	})

	assert.Equal(t, domain.DecisionWait, result.Decision)
	assert.Contains(t, result.DecisionReason, "Daily amortized cost")
	assert.Contains(t, result.Alternatives, "Consider renting or a subscription instead")
}

func TestAudit_ComfortablePurchaseGoes(t *testing.T) {
	// True cost 90,000 over 1825 days is about ¥49/day.
	result := NewPurchaseAuditor().Audit(Request{
		ItemName:        "Office chair",
		Price:           dec(100000),
		LifespanYears:   5,
		LiquidAssets:    decPtr(5000000),
		MonthlyExpenses: decPtr(200000),
	})

	assert.Equal(t, domain.DecisionGo, result.Decision)
	assert.Contains(t, result.DecisionReason, "No financial concerns")
	assert.Equal(t, []string{"No concerns with proceeding"}, result.Alternatives)
}

func TestAudit_Defaults(t *testing.T) {
	result := NewPurchaseAuditor().Audit(Request{
		ItemName: "Laptop",
		Price:    dec(200000),
	})

	// Lifespan defaults to 5 years, resale to 10% of price.
	assert.Equal(t, 5.0, result.LifespanYears)
	assert.True(t, result.ResaleValue.Equal(dec(20000)))
	assert.True(t, result.TrueCost.Equal(dec(180000)))
	// Defaults: 1,000,000 liquid at 200,000/month.
	assert.InDelta(t, 1.0, result.RunwayImpactMonths, 0.001)
}

func TestAudit_CostBreakdown(t *testing.T) {
	result := NewPurchaseAuditor().Audit(Request{
		ItemName:      "Espresso machine",
		Price:         dec(120000),
		LifespanYears: 2,
		ResaleValue:   decPtr(11000),
		LiquidAssets:  decPtr(5000000),
	})

	// (120,000 - 11,000) / 730 days = 149.32/day.
	assert.True(t, result.DailyCost.Equal(decimal.NewFromFloat(149.32)),
		"got %s", result.DailyCost)
	assert.True(t, result.MonthlyCost.Equal(dec(4480)), "got %s", result.MonthlyCost)
	assert.True(t, result.AnnualCost.Equal(dec(54502)), "got %s", result.AnnualCost)
}

func TestAudit_SmallTradeOffsAreDropped(t *testing.T) {
	// impact = 30,000/10,000,000*100 = 0.3 points; reduction 0.15 <= 1.
	result := NewPurchaseAuditor().Audit(Request{
		ItemName:        "Monitor",
		Price:           dec(30000),
		LiquidAssets:    decPtr(5000000),
		MonthlyExpenses: decPtr(200000),
		GoalResults:     []domain.GoalResult{goalResult("Retirement", 10000000, 75)},
	})

	assert.Empty(t, result.TradeOffs)
}

func TestQuickCheck(t *testing.T) {
	auditor := NewPurchaseAuditor()

	below := auditor.QuickCheck(dec(29999))
	assert.False(t, below.RequiresAudit)
	assert.Contains(t, below.Message, "Ordinary expense")

	atThreshold := auditor.QuickCheck(dec(30000))
	assert.True(t, atThreshold.RequiresAudit)
	assert.Contains(t, atThreshold.Message, "full purchase audit")
}

func TestCompareOptions_SortsByDecisionThenDailyCost(t *testing.T) {
	options := []Option{
		{Name: "Premium", Price: dec(2000000), LifespanYears: 5},  // WAIT on daily cost
		{Name: "Budget", Price: dec(100000), LifespanYears: 5},    // GO
		{Name: "Mid-range", Price: dec(300000), LifespanYears: 5}, // GO, higher daily cost
	}

	results := NewPurchaseAuditor().CompareOptions(options, dec(10000000), dec(200000), nil)
	require.Len(t, results, 3)

	assert.Equal(t, "Budget", results[0].ItemName)
	assert.Equal(t, "Mid-range", results[1].ItemName)
	assert.Equal(t, "Premium", results[2].ItemName)
	assert.Equal(t, domain.DecisionGo, results[0].Decision)
	assert.Equal(t, domain.DecisionWait, results[2].Decision)
}
