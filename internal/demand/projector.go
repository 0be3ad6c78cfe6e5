package demand

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Source yields uniform floats in [0, 1). *rand.Rand from math/rand and
// math/rand/v2 both satisfy it.
type Source interface {
	Float64() float64
}

var ErrInvalidItem = errors.New("demand: invalid item")

// Item is the product snapshot a projection needs.
type Item struct {
	ProductID    int64
	Category     string
	UnitPrice    float64
	CurrentStock int
	MinimumStock int
}

// Projection is the demand and confidence for one item on one day.
type Projection struct {
	Demand     float64
	Confidence float64
}

const (
	baseConfidence       = 0.75
	wellStockedBonus     = 0.10
	weekendPenalty       = 0.05
	minConfidence        = 0.1
	maxConfidence        = 1.0
	defaultVariation     = 0.2
	defaultConfidenceJit = 0.1
)

// Projector composes base demand with calendar factors and bounded noise.
type Projector struct {
	// Variation bounds the relative demand noise, drawn from [-Variation, Variation].
	Variation float64
	// ConfidenceJitter bounds the additive confidence noise.
	ConfidenceJitter float64
}

func NewProjector() Projector {
	return Projector{Variation: defaultVariation, ConfidenceJitter: defaultConfidenceJit}
}

// Project draws exactly two values from rng: demand noise, then confidence noise.
func (p Projector) Project(item Item, date time.Time, rng Source) (Projection, error) {
	if math.IsNaN(item.UnitPrice) || math.IsInf(item.UnitPrice, 0) || item.UnitPrice < 0 {
		return Projection{}, fmt.Errorf("%w: product %d unit price %v", ErrInvalidItem, item.ProductID, item.UnitPrice)
	}
	if rng == nil {
		return Projection{}, fmt.Errorf("%w: nil randomness source", ErrInvalidItem)
	}

	variation := uniform(rng, p.Variation)
	demand := BaseDemand(item.Category, item.UnitPrice) *
		SeasonalFactor(date) *
		DayOfWeekFactor(date) *
		(1 + variation)
	if math.IsNaN(demand) || demand < 0 {
		demand = 0
	}

	confidence := baseConfidence
	if item.CurrentStock > 3*item.MinimumStock {
		confidence += wellStockedBonus
	}
	if isWeekend(date) {
		confidence -= weekendPenalty
	}
	confidence += uniform(rng, p.ConfidenceJitter)

	return Projection{Demand: demand, Confidence: clamp(confidence, minConfidence, maxConfidence)}, nil
}

// uniform maps rng onto [-bound, bound].
func uniform(rng Source, bound float64) float64 {
	return bound * (2*rng.Float64() - 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
