package engine

import (
	"math"
	"slices"

	"cloud.google.com/go/civil"
)

// Tier is the urgency of restocking a consumable.
type Tier string

const (
	TierCritical Tier = "critical"
	TierWarning  Tier = "warning"
	TierLow      Tier = "low"
	TierGood     Tier = "good"
	TierNoData   Tier = "no-data"
)

func (t Tier) rank() int {
	switch t {
	case TierCritical:
		return 0
	case TierWarning:
		return 1
	case TierLow:
		return 2
	case TierGood:
		return 3
	default:
		return 4
	}
}

// MaxForecastDays bounds DaysLeft in both directions so that absurd stock
// levels still give a representable RunOutDate.
const MaxForecastDays = math.MaxInt32

// Projection is the forecast for one consumable. DaysLeft and RunOutDate are
// nil exactly when Tier is TierNoData.
type Projection struct {
	DaysLeft   *int
	RunOutDate *civil.Date
	Tier       Tier
}

// Forecast projects when a consumable runs out, counting whole days from
// today. Missing inputs or a non-positive rate give TierNoData.
func Forecast(totalServings, servingsPerDay *float64, today civil.Date) Projection {
	if totalServings == nil || servingsPerDay == nil || *servingsPerDay <= 0 {
		return Projection{Tier: TierNoData}
	}
	ratio := math.Floor(*totalServings / *servingsPerDay)
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return Projection{Tier: TierNoData}
	}
	ratio = math.Max(-MaxForecastDays, math.Min(ratio, MaxForecastDays))
	daysLeft := int(ratio)
	runOut := today.AddDays(daysLeft)
	return Projection{
		DaysLeft:   &daysLeft,
		RunOutDate: &runOut,
		Tier:       tierFor(daysLeft),
	}
}

func tierFor(daysLeft int) Tier {
	switch {
	case daysLeft <= 3:
		return TierCritical
	case daysLeft <= 7:
		return TierWarning
	case daysLeft <= 14:
		return TierLow
	default:
		return TierGood
	}
}

// SortByTier orders items most urgent first with TierNoData last. Only the
// tier is compared; items in the same tier keep their input order.
func SortByTier[T any](items []T, tier func(T) Tier) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return tier(a).rank() - tier(b).rank()
	})
	return out
}
