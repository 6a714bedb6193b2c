package domain

import "github.com/shopspring/decimal"

// PortfolioDetails is the point-in-time financial position a plan file
// declares. How these figures are computed (ledger balances, market pricing)
// is the ledger layer's concern; the planner consumes them as given.
type PortfolioDetails struct {
	Name            string          `yaml:"name" json:"name"`
	CurrentValue    decimal.Decimal `yaml:"current_value" json:"current_value"`
	TotalAssets     decimal.Decimal `yaml:"total_assets" json:"total_assets"`
	CurrentDebt     decimal.Decimal `yaml:"current_debt" json:"current_debt"`
	LiquidAssets    decimal.Decimal `yaml:"liquid_assets" json:"liquid_assets"`
	MonthlyExpenses decimal.Decimal `yaml:"monthly_expenses" json:"monthly_expenses"`
}

// SimulationSettings controls the Monte Carlo run declared in a plan file.
type SimulationSettings struct {
	NumPaths     int    `yaml:"num_paths" json:"num_paths"`
	HorizonYears int    `yaml:"horizon_years" json:"horizon_years"`
	Seed         *int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
	Workers      int    `yaml:"workers,omitempty" json:"workers,omitempty"`
}

// Plan is the complete input configuration for a planning run.
type Plan struct {
	Portfolio  PortfolioDetails   `yaml:"portfolio" json:"portfolio"`
	Policy     *FundingPolicy     `yaml:"policy,omitempty" json:"policy,omitempty"`
	Goals      []Goal             `yaml:"goals" json:"goals"`
	Simulation SimulationSettings `yaml:"simulation" json:"simulation"`
}

// EffectivePolicy returns the plan's policy, or the default assumptions when
// the plan does not declare one.
func (p *Plan) EffectivePolicy() FundingPolicy {
	if p.Policy != nil {
		return *p.Policy
	}
	return DefaultPolicy()
}
