package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// trajectoryPaths is the reduced path count used for the year-by-year median
// curve. Charting does not need the full distribution, so accuracy is traded
// for cost here.
const trajectoryPaths = 100

// SimulatorConfig holds configuration for Monte Carlo simulations.
type SimulatorConfig struct {
	// NumPaths is the number of independent sample paths. Must be >= 1.
	NumPaths int
	// Seed fixes the random stream for reproducible runs. Nil means a
	// time-based seed (production variability).
	Seed *int64
	// Workers bounds path-level parallelism. Zero means GOMAXPROCS.
	Workers int
}

// DefaultSimulatorConfig returns the standard production configuration.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{NumPaths: 1000}
}

// PathSimulator generates sample paths of portfolio value under random
// monthly returns. Paths are computed independently: path i always consumes
// its own random stream (seed + i), so seeded runs are bit-for-bit
// reproducible regardless of worker count.
type PathSimulator struct {
	config SimulatorConfig
	logger Logger
}

// NewPathSimulator creates a simulator, failing fast on invalid
// configuration.
func NewPathSimulator(config SimulatorConfig) (*PathSimulator, error) {
	if config.NumPaths < 1 {
		return nil, fmt.Errorf("number of simulation paths must be at least 1, got %d", config.NumPaths)
	}
	if config.Workers < 0 {
		return nil, fmt.Errorf("worker count cannot be negative, got %d", config.Workers)
	}
	if config.Workers == 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	return &PathSimulator{config: config, logger: nopLogger{}}, nil
}

// SetLogger attaches a logger. A nil logger silences the simulator.
func (ps *PathSimulator) SetLogger(l Logger) {
	if l == nil {
		ps.logger = nopLogger{}
		return
	}
	ps.logger = l
}

// NumPaths reports the configured path count.
func (ps *PathSimulator) NumPaths() int { return ps.config.NumPaths }

// pathParams are the per-month float parameters of a run. Rates are
// fractions here (0.05 = 5%), converted once from the policy's percentages
// before the hot loop.
type pathParams struct {
	initial            float64
	monthlyReturn      float64
	monthlyVolatility  float64
	contribution       float64
	contributionGrowth float64
}

func newPathParams(initialValue decimal.Decimal, policy domain.FundingPolicy) pathParams {
	return pathParams{
		initial:            initialValue.InexactFloat64(),
		monthlyReturn:      policy.AnnualReturn.InexactFloat64() / 100 / 12,
		monthlyVolatility:  policy.Volatility.InexactFloat64() / 100 / math.Sqrt(12),
		contribution:       policy.MonthlySavings.InexactFloat64(),
		contributionGrowth: policy.ContributionGrowth.InexactFloat64() / 100,
	}
}

// validatePolicy rejects configurations that must not reach the hot loop.
func validatePolicy(policy domain.FundingPolicy) error {
	if policy.Volatility.IsNegative() {
		return fmt.Errorf("volatility cannot be negative, got %s%%", policy.Volatility.StringFixed(2))
	}
	if policy.MonthlySavings.IsNegative() {
		return fmt.Errorf("monthly savings cannot be negative, got %s", policy.MonthlySavings.StringFixed(0))
	}
	if policy.TaxRate.IsNegative() || policy.TaxRate.GreaterThan(hundred) {
		return fmt.Errorf("tax rate must be between 0%% and 100%%, got %s%%", policy.TaxRate.StringFixed(2))
	}
	return nil
}

// Simulate runs the configured number of sample paths over horizonYears and
// returns the terminal value of each path, deflated to real terms by the
// policy's inflation rate.
func (ps *PathSimulator) Simulate(ctx context.Context, initialValue decimal.Decimal, policy domain.FundingPolicy, horizonYears int) ([]float64, error) {
	if err := validatePolicy(policy); err != nil {
		return nil, fmt.Errorf("invalid funding policy: %w", err)
	}
	if horizonYears < 1 {
		return nil, fmt.Errorf("simulation horizon must be at least 1 year, got %d", horizonYears)
	}

	params := newPathParams(initialValue, policy)
	months := horizonYears * 12
	values := make([]float64, ps.config.NumPaths)

	start := time.Now()
	if err := ps.runPaths(ctx, values, months, params, ps.baseSeed()); err != nil {
		return nil, err
	}
	ps.logger.Debugf("simulated %d paths x %d months in %s", len(values), months, time.Since(start))

	// Deflate nominal terminal values to real terms.
	deflator := math.Pow(1+policy.InflationRate.InexactFloat64()/100, float64(horizonYears))
	for i := range values {
		values[i] /= deflator
	}
	return values, nil
}

// Trajectory computes the year-by-year median projection used for charting.
// Values are nominal; the reduced path count keeps the quadratic cost of the
// per-year re-simulation acceptable.
func (ps *PathSimulator) Trajectory(ctx context.Context, initialValue decimal.Decimal, policy domain.FundingPolicy, horizonYears int) ([]domain.TrajectoryPoint, error) {
	if err := validatePolicy(policy); err != nil {
		return nil, fmt.Errorf("invalid funding policy: %w", err)
	}
	if horizonYears < 1 {
		return nil, fmt.Errorf("trajectory horizon must be at least 1 year, got %d", horizonYears)
	}

	params := newPathParams(initialValue, policy)
	numPaths := ps.config.NumPaths
	if numPaths > trajectoryPaths {
		numPaths = trajectoryPaths
	}
	baseSeed := ps.baseSeed()
	currentYear := time.Now().Year()

	points := make([]domain.TrajectoryPoint, 0, horizonYears+1)
	points = append(points, domain.TrajectoryPoint{
		Year:        0,
		Date:        currentYear,
		MedianValue: initialValue,
	})

	for year := 1; year <= horizonYears; year++ {
		values := make([]float64, numPaths)
		if err := ps.runPaths(ctx, values, year*12, params, baseSeed); err != nil {
			return nil, err
		}
		points = append(points, domain.TrajectoryPoint{
			Year:        year,
			Date:        currentYear + year,
			MedianValue: toCurrency(median(values)),
		})
	}
	return points, nil
}

func (ps *PathSimulator) baseSeed() int64 {
	if ps.config.Seed != nil {
		return *ps.config.Seed
	}
	return time.Now().UnixNano()
}

// runPaths fans path indices out to a bounded worker pool. Each worker owns
// a per-path generator seeded from the base seed plus the path index, so no
// state is shared across paths and iteration order cannot affect results.
func (ps *PathSimulator) runPaths(ctx context.Context, values []float64, months int, params pathParams, baseSeed int64) error {
	workers := ps.config.Workers
	if workers > len(values) {
		workers = len(values)
	}

	pathCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range pathCh {
				rng := rand.New(rand.NewSource(baseSeed + int64(i)))
				values[i] = runPath(params, months, rng)
			}
		}()
	}

feed:
	for i := 0; i < len(values); i++ {
		select {
		case pathCh <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(pathCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("simulation aborted: %w", err)
	}
	return nil
}

// runPath walks a single sample path month by month: apply the random
// return, add the contribution, and step the contribution up once each
// simulated year.
func runPath(params pathParams, months int, rng *rand.Rand) float64 {
	value := params.initial
	contribution := params.contribution

	for month := 0; month < months; month++ {
		monthReturn := rng.NormFloat64()*params.monthlyVolatility + params.monthlyReturn
		value = value * (1 + monthReturn)
		value += contribution

		if month > 0 && month%12 == 0 {
			contribution *= 1 + params.contributionGrowth
		}
	}
	return value
}

// totalContributions returns the sum of the stepped-up contribution schedule
// over the given number of months. Used as the cost basis when taxing
// capital gains.
func totalContributions(params pathParams, months int) float64 {
	total := 0.0
	contribution := params.contribution
	for month := 0; month < months; month++ {
		total += contribution
		if month > 0 && month%12 == 0 {
			contribution *= 1 + params.contributionGrowth
		}
	}
	return total
}
