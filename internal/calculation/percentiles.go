package calculation

import (
	"sort"

	"github.com/shopspring/decimal"
)

// percentile returns the pct-th percentile (0-100) of values using the
// standard linear-interpolation definition. The input is not modified.
func percentile(values []float64, pct float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := pct / 100 * float64(len(sorted)-1)
	lower := int(index)
	if index == float64(lower) {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*fraction
}

// median is the 50th percentile.
func median(values []float64) float64 {
	return percentile(values, 50)
}

// toCurrency converts a simulated float value to the decimal type used on
// result boundaries.
func toCurrency(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
