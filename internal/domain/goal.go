package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Priority is the fallback weighting used when a goal carries no explicit
// monthly contribution.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight returns the budget-allocation weight for the priority (high 3,
// medium 2, low 1; unknown values fall back to 1).
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Goal is a future funding target (a life event): an amount to have saved by
// a date. FundedAmount is an authoritative snapshot provided by the ledger
// layer; the planning core never mutates it.
type Goal struct {
	ID           uuid.UUID       `yaml:"-" json:"id"`
	Name         string          `yaml:"name" json:"name"`
	TargetAmount decimal.Decimal `yaml:"target_amount" json:"target_amount"`
	TargetDate   time.Time       `yaml:"target_date" json:"target_date"`
	FundedAmount decimal.Decimal `yaml:"funded_amount" json:"funded_amount"`
	Priority     Priority        `yaml:"priority" json:"priority"`

	// MonthlyContribution is optional. When nil, the planner splits the
	// policy's monthly savings evenly across all open goals.
	MonthlyContribution *decimal.Decimal `yaml:"monthly_contribution,omitempty" json:"monthly_contribution,omitempty"`
}

// MonthsRemaining returns whole calendar months between now and the target
// date. Negative when the target date has passed.
func (g *Goal) MonthsRemaining(now time.Time) int {
	return (g.TargetDate.Year()-now.Year())*12 + int(g.TargetDate.Month()) - int(now.Month())
}

// YearsToTarget returns the fractional years until the target date, floored
// at zero.
func (g *Goal) YearsToTarget(now time.Time) float64 {
	days := g.TargetDate.Sub(now).Hours() / 24
	years := days / 365
	if years < 0 {
		return 0
	}
	return years
}
