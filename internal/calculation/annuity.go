package calculation

import (
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// AnnuityProjection is the closed-form projection for a single goal. In this
// deterministic path Probability is identical to ProgressPct: there is no
// confidence model here, only a single-point estimate. The full Monte Carlo
// path is the one that produces a statistical probability.
type AnnuityProjection struct {
	ProgressPct     decimal.Decimal `json:"progress_pct"`
	ProjectedAmount decimal.Decimal `json:"projected_amount"`
	Shortfall       decimal.Decimal `json:"shortfall"`
	Probability     decimal.Decimal `json:"probability"`
}

// AnnuityProjector computes deterministic goal-funding projections using the
// ordinary-annuity future value formula.
type AnnuityProjector struct{}

// NewAnnuityProjector creates a new annuity projector.
func NewAnnuityProjector() *AnnuityProjector {
	return &AnnuityProjector{}
}

// Project computes the future value of the funded balance plus the monthly
// contribution stream over monthsRemaining at annualReturn (a percentage,
// 5.0 = 5%/year).
//
// When the goal date has passed (monthsRemaining <= 0) no compounding is
// applied: progress is simply funded/target and the projected amount is the
// funded balance as-is.
func (ap *AnnuityProjector) Project(target, funded, monthlyContribution decimal.Decimal, monthsRemaining int, annualReturn decimal.Decimal) AnnuityProjection {
	if monthsRemaining <= 0 {
		progress := decimal.Zero
		if target.IsPositive() {
			progress = funded.Div(target).Mul(hundred)
		}
		progress = clampPct(progress)
		return AnnuityProjection{
			ProgressPct:     progress,
			ProjectedAmount: funded,
			Shortfall:       decimal.Max(decimal.Zero, target.Sub(funded)),
			Probability:     progress,
		}
	}

	months := decimal.NewFromInt(int64(monthsRemaining))
	monthlyRate := annualReturn.Div(hundred).Div(decimal.NewFromInt(12))

	// Clamp the monthly growth factor at zero so a pathological return below
	// -1200%/year decays the balance to nothing instead of flipping sign.
	growthFactor := one.Add(monthlyRate)
	if growthFactor.IsNegative() {
		growthFactor = decimal.Zero
	}
	compounded := growthFactor.Pow(months)

	var fvContributions decimal.Decimal
	if monthlyRate.IsZero() {
		fvContributions = monthlyContribution.Mul(months)
	} else {
		fvContributions = monthlyContribution.Mul(compounded.Sub(one)).Div(monthlyRate)
	}
	fvFunded := funded.Mul(compounded)
	projected := fvFunded.Add(fvContributions)

	progress := decimal.Zero
	if target.IsPositive() {
		progress = projected.Div(target).Mul(hundred)
	}
	progress = clampPct(progress)

	return AnnuityProjection{
		ProgressPct:     progress,
		ProjectedAmount: projected,
		Shortfall:       decimal.Max(decimal.Zero, target.Sub(projected)),
		Probability:     progress,
	}
}

// clampPct restricts a percentage to [0,100].
func clampPct(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
