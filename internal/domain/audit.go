package domain

import "github.com/shopspring/decimal"

// AuditDecision is the purchase recommendation.
type AuditDecision string

const (
	DecisionGo   AuditDecision = "GO"   // proceed with the purchase
	DecisionWait AuditDecision = "WAIT" // delay the purchase
	DecisionStop AuditDecision = "STOP" // do not purchase
)

// TradeOff describes the estimated impact of a purchase on a single goal.
type TradeOff struct {
	GoalName           string          `json:"goalName"`
	CurrentProbability decimal.Decimal `json:"currentProbability"`
	NewProbability     decimal.Decimal `json:"newProbability"`
	ProbabilityChange  decimal.Decimal `json:"probabilityChange"` // negative = reduction
	ImpactDescription  string          `json:"impactDescription"`
}

// AuditResult is the outcome of a purchase audit.
type AuditResult struct {
	ItemName      string          `json:"itemName"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	LifespanYears float64         `json:"lifespanYears"`
	ResaleValue   decimal.Decimal `json:"resaleValue"`

	DailyCost   decimal.Decimal `json:"dailyCost"`
	MonthlyCost decimal.Decimal `json:"monthlyCost"`
	AnnualCost  decimal.Decimal `json:"annualCost"`
	TrueCost    decimal.Decimal `json:"trueCost"` // price minus resale

	RunwayImpactMonths  float64    `json:"runwayImpactMonths"`
	AssetLifeImpactDays int        `json:"assetLifeImpactDays"`
	TradeOffs           []TradeOff `json:"tradeOffs"`

	Decision       AuditDecision `json:"decision"`
	DecisionReason string        `json:"decisionReason"`
	Alternatives   []string      `json:"alternativeSuggestions"`
}

// DepreciationSchedule is the straight-line book value of a capitalized
// purchase at a point in time.
type DepreciationSchedule struct {
	CurrentValue      decimal.Decimal `json:"currentValue"`
	TotalDepreciation decimal.Decimal `json:"totalDepreciation"`
	DailyRate         decimal.Decimal `json:"dailyRate"`
}
