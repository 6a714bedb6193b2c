package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// Defaults applied when a plan file leaves simulation settings unset.
const (
	DefaultNumPaths     = 1000
	DefaultHorizonYears = 30
)

// InputParser handles parsing of plan configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file, applies defaults, and
// validates it. Goals are assigned identities here so downstream results can
// reference them.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.applyDefaults(&plan)
	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	for i := range plan.Goals {
		if plan.Goals[i].ID == uuid.Nil {
			plan.Goals[i].ID = uuid.New()
		}
	}
	return &plan, nil
}

func (ip *InputParser) applyDefaults(plan *domain.Plan) {
	if plan.Simulation.NumPaths == 0 {
		plan.Simulation.NumPaths = DefaultNumPaths
	}
	if plan.Simulation.HorizonYears == 0 {
		plan.Simulation.HorizonYears = DefaultHorizonYears
	}
	for i := range plan.Goals {
		if plan.Goals[i].Priority == "" {
			plan.Goals[i].Priority = domain.PriorityMedium
		}
	}
}

// ValidatePlan rejects configurations that must not reach the simulation
// loop.
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if err := ip.validatePortfolio(&plan.Portfolio); err != nil {
		return fmt.Errorf("portfolio validation failed: %w", err)
	}
	if plan.Policy != nil {
		if err := ip.validatePolicy(plan.Policy); err != nil {
			return fmt.Errorf("policy validation failed: %w", err)
		}
	}
	for i, goal := range plan.Goals {
		if err := ip.validateGoal(&goal); err != nil {
			return fmt.Errorf("goal %d (%s) validation failed: %w", i, goal.Name, err)
		}
	}
	if err := ip.validateSimulation(&plan.Simulation); err != nil {
		return fmt.Errorf("simulation settings validation failed: %w", err)
	}
	return nil
}

func (ip *InputParser) validatePortfolio(portfolio *domain.PortfolioDetails) error {
	if portfolio.CurrentValue.IsNegative() {
		return fmt.Errorf("current value cannot be negative")
	}
	if portfolio.TotalAssets.IsNegative() {
		return fmt.Errorf("total assets cannot be negative")
	}
	if portfolio.CurrentDebt.IsNegative() {
		return fmt.Errorf("current debt cannot be negative")
	}
	if portfolio.LiquidAssets.IsNegative() {
		return fmt.Errorf("liquid assets cannot be negative")
	}
	if portfolio.MonthlyExpenses.IsNegative() {
		return fmt.Errorf("monthly expenses cannot be negative")
	}
	return nil
}

func (ip *InputParser) validatePolicy(policy *domain.FundingPolicy) error {
	if policy.AnnualReturn.LessThan(decimal.NewFromInt(-100)) || policy.AnnualReturn.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("annual return must be between -100%% and 100%%, got %s%%", policy.AnnualReturn.StringFixed(2))
	}
	if policy.Volatility.IsNegative() {
		return fmt.Errorf("volatility cannot be negative, got %s%%", policy.Volatility.StringFixed(2))
	}
	if policy.InflationRate.LessThan(decimal.NewFromInt(-10)) || policy.InflationRate.GreaterThan(decimal.NewFromInt(20)) {
		return fmt.Errorf("inflation rate must be between -10%% and 20%%, got %s%%", policy.InflationRate.StringFixed(2))
	}
	if policy.ContributionGrowth.LessThan(decimal.NewFromInt(-100)) {
		return fmt.Errorf("contribution growth cannot be less than -100%%")
	}
	if policy.TaxRate.IsNegative() || policy.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("tax rate must be between 0%% and 100%%, got %s%%", policy.TaxRate.StringFixed(2))
	}
	if policy.MonthlySavings.IsNegative() {
		return fmt.Errorf("monthly savings cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateGoal(goal *domain.Goal) error {
	if goal.Name == "" {
		return fmt.Errorf("name is required")
	}
	if goal.TargetAmount.IsNegative() {
		return fmt.Errorf("target amount cannot be negative")
	}
	if goal.TargetDate.IsZero() {
		return fmt.Errorf("target date is required")
	}
	if goal.FundedAmount.IsNegative() {
		return fmt.Errorf("funded amount cannot be negative")
	}
	switch goal.Priority {
	case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
	default:
		return fmt.Errorf("priority must be 'high', 'medium' or 'low', got %q", goal.Priority)
	}
	if goal.MonthlyContribution != nil && goal.MonthlyContribution.IsNegative() {
		return fmt.Errorf("monthly contribution cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateSimulation(settings *domain.SimulationSettings) error {
	if settings.NumPaths < 1 {
		return fmt.Errorf("num_paths must be at least 1, got %d", settings.NumPaths)
	}
	if settings.HorizonYears < 1 || settings.HorizonYears > 100 {
		return fmt.Errorf("horizon_years must be between 1 and 100, got %d", settings.HorizonYears)
	}
	if settings.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", settings.Workers)
	}
	return nil
}
