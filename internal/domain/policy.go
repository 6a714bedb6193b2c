package domain

import "github.com/shopspring/decimal"

// FundingPolicy bundles the macroeconomic and contribution assumptions
// applied to a projection. All rate fields are percentages (5.0 means 5% a
// year). It is an immutable value object supplied per simulation call, not a
// stored entity.
type FundingPolicy struct {
	AnnualReturn       decimal.Decimal `yaml:"annual_return" json:"annual_return"`             // nominal, may be zero or negative
	Volatility         decimal.Decimal `yaml:"volatility" json:"volatility"`                   // annualized standard deviation
	InflationRate      decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`           // deflates nominal outcomes to real terms
	ContributionGrowth decimal.Decimal `yaml:"contribution_growth" json:"contribution_growth"` // annual step-up of recurring contributions
	TaxRate            decimal.Decimal `yaml:"tax_rate" json:"tax_rate"`                       // applied to capital gains in taxable accounts only
	TaxAdvantaged      bool            `yaml:"tax_advantaged" json:"tax_advantaged"`           // NISA/iDeCo-style account, gains exempt

	// MonthlySavings is the portfolio-level recurring contribution, split
	// across goals that carry no explicit monthly contribution.
	MonthlySavings decimal.Decimal `yaml:"monthly_savings" json:"monthly_savings"`
}

// DefaultPolicy returns the single source of default assumptions used when a
// portfolio has no stored policy. Every caller goes through this; the
// literals are not re-declared anywhere else.
func DefaultPolicy() FundingPolicy {
	return FundingPolicy{
		AnnualReturn:       decimal.NewFromFloat(5.0),
		Volatility:         decimal.NewFromFloat(15.0),
		InflationRate:      decimal.NewFromFloat(2.0),
		ContributionGrowth: decimal.NewFromFloat(2.0),
		TaxRate:            decimal.NewFromFloat(20.0),
		TaxAdvantaged:      true,
		MonthlySavings:     decimal.NewFromInt(100000),
	}
}
