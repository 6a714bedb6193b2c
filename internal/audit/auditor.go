// Package audit implements the purchase decision layer: given a candidate
// purchase and the current goal outlook, it recommends GO, WAIT or STOP.
package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// RecognitionThreshold is the price at which a purchase stops being an
// ordinary expense and is treated as a capitalized asset.
var RecognitionThreshold = decimal.NewFromInt(30000)

// Decision thresholds. Rule order matters and is fixed; see Audit.
var (
	stopRunwayMonths   = 3.0
	waitRunwayMonths   = 6.0
	severeImpactPoints = decimal.NewFromInt(10)
	comfortDailyCost   = decimal.NewFromInt(500)

	defaultLiquidAssets    = decimal.NewFromInt(1000000)
	defaultMonthlyExpenses = decimal.NewFromInt(200000)
)

// Request describes a candidate purchase. ResaleValue, LiquidAssets and
// MonthlyExpenses are optional; nil selects the documented defaults (10% of
// price, ¥1,000,000 and ¥200,000 respectively).
type Request struct {
	ItemName        string
	Price           decimal.Decimal
	LifespanYears   float64
	ResaleValue     *decimal.Decimal
	LiquidAssets    *decimal.Decimal
	MonthlyExpenses *decimal.Decimal
	GoalResults     []domain.GoalResult
}

// Option is one entry in a multi-option comparison.
type Option struct {
	Name          string
	Price         decimal.Decimal
	LifespanYears float64
	ResaleValue   *decimal.Decimal
}

// PurchaseAuditor audits high-value purchase decisions.
type PurchaseAuditor struct{}

// NewPurchaseAuditor creates a new auditor.
func NewPurchaseAuditor() *PurchaseAuditor {
	return &PurchaseAuditor{}
}

// Audit evaluates a purchase and emits a recommendation.
//
// The decision is a strict priority chain; the first matching rule wins:
//
//  1. price below the recognition threshold  -> GO
//  2. post-purchase runway under 3 months    -> STOP
//  3. post-purchase runway under 6 months    -> WAIT
//  4. any goal probability drop over 10 pts  -> WAIT
//  5. daily amortized cost over ¥500         -> WAIT
//  6. otherwise                              -> GO
//
// The order is load-bearing: a cheap item short-circuits at rule 1 even when
// its runway impact would otherwise trip rule 2.
func (pa *PurchaseAuditor) Audit(req Request) domain.AuditResult {
	lifespanYears := req.LifespanYears
	if lifespanYears <= 0 {
		lifespanYears = 5.0
	}
	resale := req.Price.Mul(decimal.NewFromFloat(0.1)).Round(0)
	if req.ResaleValue != nil {
		resale = *req.ResaleValue
	}
	liquidAssets := defaultLiquidAssets
	if req.LiquidAssets != nil {
		liquidAssets = *req.LiquidAssets
	}
	monthlyExpenses := defaultMonthlyExpenses
	if req.MonthlyExpenses != nil {
		monthlyExpenses = *req.MonthlyExpenses
	}

	lifespanDays := int64(lifespanYears * 365)
	trueCost := req.Price.Sub(resale)
	dailyCost := trueCost.Div(decimal.NewFromInt(lifespanDays)).Round(2)
	monthlyCost := dailyCost.Mul(decimal.NewFromInt(30)).Round(0)
	annualCost := dailyCost.Mul(decimal.NewFromInt(365)).Round(0)

	currentRunway := runwayMonths(liquidAssets, monthlyExpenses)
	newRunway := runwayMonths(liquidAssets.Sub(req.Price), monthlyExpenses)
	runwayImpact := currentRunway - newRunway

	// Days of savings this purchase costs, assuming a 20% savings rate.
	assetLifeImpactDays := 0
	savingsPerDay := monthlyExpenses.InexactFloat64() * 0.20 / 30
	if savingsPerDay > 0 {
		assetLifeImpactDays = int(req.Price.InexactFloat64() / savingsPerDay)
	}

	tradeOffs := pa.tradeOffs(req.Price, req.GoalResults)
	decision, reason := pa.decide(req.Price, dailyCost, newRunway, tradeOffs)

	return domain.AuditResult{
		ItemName:            req.ItemName,
		PurchasePrice:       req.Price,
		LifespanYears:       lifespanYears,
		ResaleValue:         resale,
		DailyCost:           dailyCost,
		MonthlyCost:         monthlyCost,
		AnnualCost:          annualCost,
		TrueCost:            trueCost,
		RunwayImpactMonths:  runwayImpact,
		AssetLifeImpactDays: assetLifeImpactDays,
		TradeOffs:           tradeOffs,
		Decision:            decision,
		DecisionReason:      reason,
		Alternatives:        pa.alternatives(req.Price, decision, dailyCost),
	}
}

// tradeOffs estimates the per-goal probability impact with the linear model
// impact = price/target*100, reduction = min(impact*0.5, 20). Only
// reductions over one point are reported.
func (pa *PurchaseAuditor) tradeOffs(price decimal.Decimal, results []domain.GoalResult) []domain.TradeOff {
	var tradeOffs []domain.TradeOff
	for _, r := range results {
		if !r.TargetAmount.IsPositive() {
			continue
		}
		impactPct := price.Div(r.TargetAmount).Mul(decimal.NewFromInt(100))
		reduction := decimal.Min(impactPct.Mul(decimal.NewFromFloat(0.5)), decimal.NewFromInt(20))
		if reduction.LessThanOrEqual(one) {
			continue
		}
		tradeOffs = append(tradeOffs, domain.TradeOff{
			GoalName:           r.GoalName,
			CurrentProbability: r.SuccessProbability,
			NewProbability:     r.SuccessProbability.Sub(reduction),
			ProbabilityChange:  reduction.Neg(),
			ImpactDescription:  fmt.Sprintf("Achievement probability may drop by about %s%%", reduction.Round(1)),
		})
	}
	return tradeOffs
}

func (pa *PurchaseAuditor) decide(price, dailyCost decimal.Decimal, newRunway float64, tradeOffs []domain.TradeOff) (domain.AuditDecision, string) {
	if price.LessThan(RecognitionThreshold) {
		return domain.DecisionGo,
			fmt.Sprintf("Purchase price is below the asset recognition threshold (%s); treat it as an ordinary expense.", yen(RecognitionThreshold))
	}

	if newRunway < stopRunwayMonths {
		return domain.DecisionStop,
			fmt.Sprintf("Post-purchase emergency runway falls below 3 months (%.1f months). Liquidity risk is too high.", newRunway)
	}

	if newRunway < waitRunwayMonths {
		return domain.DecisionWait,
			fmt.Sprintf("Post-purchase emergency runway falls below 6 months (%.1f months). Build savings further before buying.", newRunway)
	}

	var severeNames []string
	for _, t := range tradeOffs {
		if t.ProbabilityChange.LessThan(severeImpactPoints.Neg()) {
			severeNames = append(severeNames, t.GoalName)
		}
	}
	if len(severeNames) > 0 {
		return domain.DecisionWait,
			fmt.Sprintf("Major impact (over a 10 point drop) on achieving: %s. Revisit the goals or postpone the purchase.", strings.Join(severeNames, ", "))
	}

	if dailyCost.GreaterThan(comfortDailyCost) {
		return domain.DecisionWait,
			fmt.Sprintf("Daily amortized cost (%s/day) is on the high side. Reconsider whether it is truly needed.", yen(dailyCost))
	}

	return domain.DecisionGo,
		fmt.Sprintf("No financial concerns. Daily amortized cost of %s/day is within the comfort range.", yen(dailyCost))
}

func (pa *PurchaseAuditor) alternatives(price decimal.Decimal, decision domain.AuditDecision, dailyCost decimal.Decimal) []string {
	var alternatives []string

	if decision != domain.DecisionGo {
		cheaper := price.Mul(decimal.NewFromFloat(0.7)).Round(0)
		alternatives = append(alternatives,
			fmt.Sprintf("Consider an alternative with a budget around %s", yen(cheaper)),
			"Wait 3-6 months for a sale or the previous model",
			fmt.Sprintf("Save %s a month for six months, then buy", yen(price.Div(decimal.NewFromInt(6)).Round(0))),
		)
	}

	if dailyCost.GreaterThan(decimal.NewFromInt(300)) {
		alternatives = append(alternatives, "Consider renting or a subscription instead")
	}

	if len(alternatives) == 0 {
		alternatives = append(alternatives, "No concerns with proceeding")
	}
	return alternatives
}

// QuickCheckResult reports whether a price crosses the recognition
// threshold.
type QuickCheckResult struct {
	Price         decimal.Decimal `json:"price"`
	Threshold     decimal.Decimal `json:"threshold"`
	RequiresAudit bool            `json:"requiresAudit"`
	Message       string          `json:"message"`
}

// QuickCheck answers the cheap question first: does this purchase need a
// full audit at all?
func (pa *PurchaseAuditor) QuickCheck(price decimal.Decimal) QuickCheckResult {
	requiresAudit := price.GreaterThanOrEqual(RecognitionThreshold)
	message := "Ordinary expense below the recognition threshold."
	if requiresAudit {
		message = "Capitalized asset; run a full purchase audit."
	}
	return QuickCheckResult{
		Price:         price,
		Threshold:     RecognitionThreshold,
		RequiresAudit: requiresAudit,
		Message:       message,
	}
}

// CompareOptions audits several purchase candidates against the same
// financial position and sorts them GO first, then WAIT, then STOP, breaking
// ties by daily cost.
func (pa *PurchaseAuditor) CompareOptions(options []Option, liquidAssets, monthlyExpenses decimal.Decimal, goalResults []domain.GoalResult) []domain.AuditResult {
	results := make([]domain.AuditResult, 0, len(options))
	for _, opt := range options {
		results = append(results, pa.Audit(Request{
			ItemName:        opt.Name,
			Price:           opt.Price,
			LifespanYears:   opt.LifespanYears,
			ResaleValue:     opt.ResaleValue,
			LiquidAssets:    &liquidAssets,
			MonthlyExpenses: &monthlyExpenses,
			GoalResults:     goalResults,
		}))
	}

	order := map[domain.AuditDecision]int{
		domain.DecisionGo:   0,
		domain.DecisionWait: 1,
		domain.DecisionStop: 2,
	}
	sort.SliceStable(results, func(i, j int) bool {
		if order[results[i].Decision] != order[results[j].Decision] {
			return order[results[i].Decision] < order[results[j].Decision]
		}
		return results[i].DailyCost.LessThan(results[j].DailyCost)
	})
	return results
}

var one = decimal.NewFromInt(1)

// runwayMonths is liquid assets divided by monthly burn. A zero burn rate
// reads as effectively unlimited runway.
func runwayMonths(liquidAssets, monthlyExpenses decimal.Decimal) float64 {
	if !monthlyExpenses.IsPositive() {
		return 999
	}
	return liquidAssets.Div(monthlyExpenses).InexactFloat64()
}

// yen renders a rounded amount as Japanese yen for human-readable messages.
func yen(amount decimal.Decimal) string {
	return money.New(amount.Round(0).IntPart(), money.JPY).Display()
}
