package abc

import (
	"math"
	"testing"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLadderBreakpoints(t *testing.T) {
	tests := []struct {
		name   string
		ladder Ladder
		value  float64
		want   float64
	}{
		{"revenue top", RevenueLadder, 50000, 1.0},
		{"revenue just below top", RevenueLadder, 49999.99, 0.9},
		{"revenue 1000", RevenueLadder, 1000, 0.5},
		{"revenue 50", RevenueLadder, 50, 0.2},
		{"revenue positive floor", RevenueLadder, 0.01, 0.1},
		{"revenue zero", RevenueLadder, 0, 0},
		{"revenue negative", RevenueLadder, -10, 0},
		{"volume 200", VolumeLadder, 200, 0.6},
		{"volume 9", VolumeLadder, 9, 0.1},
		{"frequency 75", FrequencyLadder, 75, 0.9},
		{"frequency 3", FrequencyLadder, 3, 0.2},
		{"frequency 2", FrequencyLadder, 2, 0.1},
		{"price 999", PriceLadder, 999, 0.8},
		{"price 10", PriceLadder, 10, 0.2},
		{"price 5", PriceLadder, 5, 0.1},
		{"order value 200", OrderValueLadder, 200, 0.8},
		{"order value 19", OrderValueLadder, 19, 0.1},
		{"seasonality 2.0", SeasonalityLadder, 2.0, 1.0},
		{"seasonality 1.0", SeasonalityLadder, 1.0, 0.4},
		{"seasonality 0.5", SeasonalityLadder, 0.5, 0.2},
		{"seasonality 0.49", SeasonalityLadder, 0.49, 0},
		{"nan", RevenueLadder, math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ladder.Score(tt.value))
		})
	}
}

func TestRevenueScoreIsMonotonic(t *testing.T) {
	prev := RevenueLadder.Score(-1)
	for v := 0.0; v <= 60000; v += 7.5 {
		got := RevenueLadder.Score(v)
		require.GreaterOrEqual(t, got, prev, "score dropped at revenue %v", v)
		prev = got
	}
}

func TestRevenueScoreBelowFifty(t *testing.T) {
	for _, v := range []float64{0.001, 1, 25, 49.99} {
		assert.Equal(t, 0.1, RevenueLadder.Score(v), "revenue %v", v)
	}
}

func TestMustLadderRejectsUnorderedSteps(t *testing.T) {
	assert.Panics(t, func() { MustLadder(0, Step{10, 0.5}, Step{20, 0.4}) })
	assert.Panics(t, func() { MustLadder(0, Step{20, 0.4}, Step{10, 0.5}) })
	assert.Panics(t, func() { MustLadder(0.9, Step{20, 0.5}) })
}

func TestTierForBoundaries(t *testing.T) {
	assert.Equal(t, domain.TierA, TierFor(0.75))
	assert.Equal(t, domain.TierA, TierFor(1.0))
	assert.Equal(t, domain.TierB, TierFor(0.749999))
	assert.Equal(t, domain.TierB, TierFor(0.45))
	assert.Equal(t, domain.TierC, TierFor(0.449999))
	assert.Equal(t, domain.TierC, TierFor(0))
}

func TestWeightsSumToOne(t *testing.T) {
	w := DefaultWeights
	sum := w.Revenue + w.Volume + w.Frequency + w.Price + w.OrderValue + w.Seasonality
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestClassifyAllTopScores(t *testing.T) {
	c := NewClassifier()
	product := ProductAggregate{ID: 7, UnitPrice: decimal.NewFromInt(1200)}
	agg := SalesAggregate{
		Revenue:           decimal.NewFromInt(60000),
		Volume:            6000,
		Frequency:         120,
		AverageOrderValue: decimal.NewFromInt(600),
		SeasonalityIndex:  2.5,
	}

	result, err := c.Classify(product, agg)
	require.NoError(t, err)

	assert.Equal(t, Scores{1, 1, 1, 1, 1, 1}, result.Scores)
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, domain.TierA, result.Tier)
	assert.Equal(t, int64(7), result.ProductID)
}

func TestClassifyAllZeroIsTierC(t *testing.T) {
	c := NewClassifier()

	result, err := c.Classify(ProductAggregate{ID: 1}, SalesAggregate{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, domain.TierC, result.Tier)
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := NewClassifier()
	product := ProductAggregate{ID: 3, UnitPrice: decimal.RequireFromString("149.99")}
	agg := SalesAggregate{
		Revenue:           decimal.RequireFromString("12345.67"),
		Volume:            340,
		Frequency:         41,
		AverageOrderValue: decimal.RequireFromString("301.11"),
		SeasonalityIndex:  1.3,
	}

	first, err := c.Classify(product, agg)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := c.Classify(product, agg)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// 0.35*0.8 + 0.25*0.6 + 0.20*0.7 + 0.10*0.5 + 0.05*0.8 + 0.05*0.6
	assert.InDelta(t, 0.69, first.Score, 1e-9)
	assert.Equal(t, domain.TierB, first.Tier)
}

func TestClassifyRejectsMalformedInput(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		product ProductAggregate
		agg     SalesAggregate
	}{
		{"negative price", ProductAggregate{UnitPrice: decimal.NewFromInt(-1)}, SalesAggregate{SeasonalityIndex: 1}},
		{"negative revenue", ProductAggregate{}, SalesAggregate{Revenue: decimal.NewFromInt(-5), SeasonalityIndex: 1}},
		{"nan seasonality", ProductAggregate{}, SalesAggregate{SeasonalityIndex: math.NaN()}},
		{"negative volume", ProductAggregate{}, SalesAggregate{Volume: -2, SeasonalityIndex: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Classify(tt.product, tt.agg)
			require.ErrorIs(t, err, ErrMalformedAggregate)
			assert.Equal(t, domain.TierC, result.Tier)
		})
	}
}
