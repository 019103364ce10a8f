package engine

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(v float64) *float64 { return &v }

func TestForecast(t *testing.T) {
	cases := []struct {
		name     string
		total    *float64
		perDay   *float64
		daysLeft int
		tier     Tier
	}{
		{"critical", num(30), num(10), 3, TierCritical},
		{"warning", num(80), num(10), 8, TierWarning},
		{"warning edge", num(70), num(10), 7, TierWarning},
		{"low", num(140), num(10), 14, TierLow},
		{"good", num(150), num(10), 15, TierGood},
		{"fractional floors", num(9.9), num(2), 4, TierWarning},
		{"empty", num(0), num(1), 0, TierCritical},
		{"depleted", num(-5), num(1), -5, TierCritical},
		{"huge stock", num(1e19), num(1), MaxForecastDays, TierGood},
		{"beyond calendar", num(1e18), num(1), MaxForecastDays, TierGood},
		{"tiny rate", num(1), num(1e-300), MaxForecastDays, TierGood},
		{"huge deficit", num(-1e19), num(1), -MaxForecastDays, TierCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Forecast(tc.total, tc.perDay, today)
			require.NotNil(t, got.DaysLeft)
			require.NotNil(t, got.RunOutDate)
			assert.Equal(t, tc.daysLeft, *got.DaysLeft)
			assert.Equal(t, today.AddDays(tc.daysLeft), *got.RunOutDate)
			assert.Equal(t, tc.tier, got.Tier)
		})
	}
}

func TestForecastNoData(t *testing.T) {
	cases := []struct {
		name   string
		total  *float64
		perDay *float64
	}{
		{"no total", nil, num(10)},
		{"no rate", num(100), nil},
		{"neither", nil, nil},
		{"zero rate", num(100), num(0)},
		{"negative rate", num(100), num(-1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Projection{Tier: TierNoData}, Forecast(tc.total, tc.perDay, today))
		})
	}
}

func TestForecastClampedRunOutStaysOrdered(t *testing.T) {
	got := Forecast(num(1e19), num(1), today)
	require.NotNil(t, got.RunOutDate)
	assert.True(t, got.RunOutDate.IsValid())
	assert.True(t, today.Before(*got.RunOutDate))
}

func TestForecastRunOutAcrossMonth(t *testing.T) {
	got := Forecast(num(60), num(2), civil.Date{Year: 2025, Month: 2, Day: 20})
	assert.Equal(t, civil.Date{Year: 2025, Month: 3, Day: 22}, *got.RunOutDate)
}

func TestSortByTier(t *testing.T) {
	type item struct {
		name string
		tier Tier
	}
	items := []item{
		{"a", TierNoData},
		{"b", TierGood},
		{"c", TierCritical},
		{"d", TierLow},
		{"e", TierCritical},
		{"f", TierWarning},
	}
	got := SortByTier(items, func(i item) Tier { return i.tier })

	var names []string
	for _, i := range got {
		names = append(names, i.name)
	}
	assert.Equal(t, []string{"c", "e", "f", "d", "b", "a"}, names)
	assert.Equal(t, "a", items[0].name, "input must not be reordered")
}
