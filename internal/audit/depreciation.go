package audit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// Depreciate computes the straight-line book value of a capitalized purchase
// as of now. Purchases below the recognition threshold, or with no useful
// life, are not depreciated and return nil.
//
// The daily rate uses a 30-day month, matching the recognition convention
// used on the accounting side.
func Depreciate(price decimal.Decimal, lifespanMonths int, purchaseDate *time.Time, now time.Time) *domain.DepreciationSchedule {
	if lifespanMonths <= 0 || price.LessThan(RecognitionThreshold) {
		return nil
	}

	dailyRate := price.Div(decimal.NewFromInt(int64(lifespanMonths) * 30))

	if purchaseDate == nil {
		return &domain.DepreciationSchedule{
			CurrentValue:      price,
			TotalDepreciation: decimal.Zero,
			DailyRate:         dailyRate,
		}
	}

	days := int64(now.Sub(*purchaseDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	totalDepreciation := dailyRate.Mul(decimal.NewFromInt(days))
	currentValue := decimal.Max(decimal.Zero, price.Sub(totalDepreciation))

	return &domain.DepreciationSchedule{
		CurrentValue:      currentValue,
		TotalDepreciation: totalDepreciation,
		DailyRate:         dailyRate,
	}
}
