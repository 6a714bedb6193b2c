package calculation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// Parameter grids swept by the sensitivity analysis.
var (
	sensitivityReturns       = []float64{2, 4, 6, 8, 10}
	sensitivityContributions = []int64{30000, 50000, 70000, 100000, 150000}
)

// SensitivityPoint is the success probability at one setting of the swept
// parameter.
type SensitivityPoint struct {
	Parameter   decimal.Decimal `json:"parameter"`
	Probability decimal.Decimal `json:"probability"`
}

// SensitivityResult holds probability curves for the swept parameters.
type SensitivityResult struct {
	ReturnSensitivity       []SensitivityPoint `json:"returnSensitivity"`
	ContributionSensitivity []SensitivityPoint `json:"contributionSensitivity"`
}

// SensitivityAnalysis sweeps expected return and monthly contribution one at
// a time, holding the rest of the policy fixed, and reports the probability
// of reaching goalAmount within the horizon.
func (se *SimulationEngine) SensitivityAnalysis(ctx context.Context, initialValue, goalAmount decimal.Decimal, policy domain.FundingPolicy, horizonYears int) (*SensitivityResult, error) {
	result := &SensitivityResult{}

	for _, annualReturn := range sensitivityReturns {
		p := policy
		p.AnnualReturn = decimal.NewFromFloat(annualReturn)
		probability, err := se.successProbability(ctx, initialValue, goalAmount, p, horizonYears)
		if err != nil {
			return nil, fmt.Errorf("return sensitivity at %.0f%%: %w", annualReturn, err)
		}
		result.ReturnSensitivity = append(result.ReturnSensitivity, SensitivityPoint{
			Parameter:   decimal.NewFromFloat(annualReturn),
			Probability: probability,
		})
	}

	for _, contribution := range sensitivityContributions {
		p := policy
		p.MonthlySavings = decimal.NewFromInt(contribution)
		probability, err := se.successProbability(ctx, initialValue, goalAmount, p, horizonYears)
		if err != nil {
			return nil, fmt.Errorf("contribution sensitivity at %d: %w", contribution, err)
		}
		result.ContributionSensitivity = append(result.ContributionSensitivity, SensitivityPoint{
			Parameter:   decimal.NewFromInt(contribution),
			Probability: probability,
		})
	}

	return result, nil
}

func (se *SimulationEngine) successProbability(ctx context.Context, initialValue, goalAmount decimal.Decimal, policy domain.FundingPolicy, horizonYears int) (decimal.Decimal, error) {
	values, err := se.simulator.Simulate(ctx, initialValue, policy, horizonYears)
	if err != nil {
		return decimal.Zero, err
	}
	target := goalAmount.InexactFloat64()
	successes := 0
	for _, v := range values {
		if v >= target {
			successes++
		}
	}
	return decimal.NewFromFloat(float64(successes) / float64(len(values)) * 100), nil
}
