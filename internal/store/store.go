// Package store defines the repository contracts the planning core consumes
// and a plan-file-backed implementation. The core itself never queries a
// data store mid-simulation; everything is materialized up front through
// these interfaces.
package store

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// GoalRepository lists a portfolio's goals. The order is stable across
// calls; the math does not depend on it but reproducible fixtures do.
type GoalRepository interface {
	ListGoals(portfolioID string) ([]domain.Goal, error)
}

// PolicyRepository resolves a portfolio's funding policy, falling back to
// domain.DefaultPolicy when none is stored.
type PolicyRepository interface {
	GetPolicy(portfolioID string) (domain.FundingPolicy, error)
}

// ValuationProvider reports a portfolio's current value as a single scalar.
type ValuationProvider interface {
	GetCurrentValue(portfolioID string) (decimal.Decimal, error)
}

// FileStore serves a single portfolio out of a loaded plan file. It
// implements all three repository contracts.
type FileStore struct {
	plan *domain.Plan
}

// NewFileStore wraps a loaded plan.
func NewFileStore(plan *domain.Plan) *FileStore {
	return &FileStore{plan: plan}
}

// resolve accepts the plan's portfolio name or the empty string (the default
// portfolio) and rejects anything else.
func (fs *FileStore) resolve(portfolioID string) error {
	if portfolioID == "" || portfolioID == fs.plan.Portfolio.Name {
		return nil
	}
	return fmt.Errorf("unknown portfolio %q", portfolioID)
}

// ListGoals returns the plan's goals ordered by target date, then name.
func (fs *FileStore) ListGoals(portfolioID string) ([]domain.Goal, error) {
	if err := fs.resolve(portfolioID); err != nil {
		return nil, err
	}
	goals := make([]domain.Goal, len(fs.plan.Goals))
	copy(goals, fs.plan.Goals)
	sort.SliceStable(goals, func(i, j int) bool {
		if !goals[i].TargetDate.Equal(goals[j].TargetDate) {
			return goals[i].TargetDate.Before(goals[j].TargetDate)
		}
		return goals[i].Name < goals[j].Name
	})
	return goals, nil
}

// GetPolicy returns the plan's policy or the centralized defaults.
func (fs *FileStore) GetPolicy(portfolioID string) (domain.FundingPolicy, error) {
	if err := fs.resolve(portfolioID); err != nil {
		return domain.FundingPolicy{}, err
	}
	return fs.plan.EffectivePolicy(), nil
}

// GetCurrentValue returns the portfolio's declared current value.
func (fs *FileStore) GetCurrentValue(portfolioID string) (decimal.Decimal, error) {
	if err := fs.resolve(portfolioID); err != nil {
		return decimal.Decimal{}, err
	}
	return fs.plan.Portfolio.CurrentValue, nil
}

// Portfolio exposes the underlying position details.
func (fs *FileStore) Portfolio() domain.PortfolioDetails {
	return fs.plan.Portfolio
}

// Simulation exposes the plan's simulation settings.
func (fs *FileStore) Simulation() domain.SimulationSettings {
	return fs.plan.Simulation
}
