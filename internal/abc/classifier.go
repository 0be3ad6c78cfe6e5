package abc

import (
	"errors"
	"fmt"
	"math"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
)

// ErrMalformedAggregate is returned for negative or non-finite inputs.
var ErrMalformedAggregate = errors.New("abc: malformed aggregate")

// Weights of the six component scores. They sum to 1.
type Weights struct {
	Revenue     float64
	Volume      float64
	Frequency   float64
	Price       float64
	OrderValue  float64
	Seasonality float64
}

var DefaultWeights = Weights{
	Revenue:     0.35,
	Volume:      0.25,
	Frequency:   0.20,
	Price:       0.10,
	OrderValue:  0.05,
	Seasonality: 0.05,
}

const (
	TierACutoff = 0.75
	TierBCutoff = 0.45
)

// Scores holds the per-component ladder scores.
type Scores struct {
	Revenue     float64 `json:"revenue"`
	Volume      float64 `json:"volume"`
	Frequency   float64 `json:"frequency"`
	Price       float64 `json:"price"`
	OrderValue  float64 `json:"order_value"`
	Seasonality float64 `json:"seasonality"`
}

// Composite is the weighted sum, rounded at 1e-9 so float noise from the
// sum cannot push a score across a cutoff.
func (s Scores) Composite(w Weights) float64 {
	sum := s.Revenue*w.Revenue +
		s.Volume*w.Volume +
		s.Frequency*w.Frequency +
		s.Price*w.Price +
		s.OrderValue*w.OrderValue +
		s.Seasonality*w.Seasonality
	return math.Round(sum*1e9) / 1e9
}

// TierFor maps a composite score to its tier.
func TierFor(composite float64) domain.Tier {
	switch {
	case composite >= TierACutoff:
		return domain.TierA
	case composite >= TierBCutoff:
		return domain.TierB
	default:
		return domain.TierC
	}
}

// ClassificationResult is the outcome for one product.
type ClassificationResult struct {
	ProductID int64       `json:"product_id"`
	Score     float64     `json:"score"`
	Tier      domain.Tier `json:"abc_category"`
	Scores    Scores      `json:"scores"`
}

// Classifier is stateless and safe for concurrent use.
type Classifier struct {
	Weights Weights
}

func NewClassifier() Classifier {
	return Classifier{Weights: DefaultWeights}
}

// ScoreComponents runs each component through its ladder.
func (c Classifier) ScoreComponents(unitPrice float64, agg SalesAggregate) (Scores, error) {
	revenue := agg.Revenue.InexactFloat64()
	aov := agg.AverageOrderValue.InexactFloat64()

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"revenue", revenue},
		{"unit price", unitPrice},
		{"order value", aov},
		{"seasonality", agg.SeasonalityIndex},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return Scores{}, fmt.Errorf("%w: %s=%v", ErrMalformedAggregate, f.name, f.value)
		}
	}
	if agg.Volume < 0 || agg.Frequency < 0 {
		return Scores{}, fmt.Errorf("%w: volume=%d frequency=%d", ErrMalformedAggregate, agg.Volume, agg.Frequency)
	}

	return Scores{
		Revenue:     RevenueLadder.Score(revenue),
		Volume:      VolumeLadder.Score(float64(agg.Volume)),
		Frequency:   FrequencyLadder.Score(float64(agg.Frequency)),
		Price:       PriceLadder.Score(unitPrice),
		OrderValue:  OrderValueLadder.Score(aov),
		Seasonality: SeasonalityLadder.Score(agg.SeasonalityIndex),
	}, nil
}

// Classify scores a product and assigns its tier.
func (c Classifier) Classify(p ProductAggregate, agg SalesAggregate) (ClassificationResult, error) {
	scores, err := c.ScoreComponents(p.UnitPrice.InexactFloat64(), agg)
	if err != nil {
		return ClassificationResult{ProductID: p.ID, Tier: domain.TierC}, err
	}

	composite := scores.Composite(c.Weights)
	return ClassificationResult{
		ProductID: p.ID,
		Score:     composite,
		Tier:      TierFor(composite),
		Scores:    scores,
	}, nil
}
