// Package abc scores products on revenue, volume, order frequency, price,
// order value and seasonality and buckets them into A/B/C value tiers.
package abc

import "fmt"

// Step awards Score to any value at or above Threshold.
type Step struct {
	Threshold float64
	Score     float64
}

// Ladder is an ordered list of steps evaluated top-down. Values that clear
// no step but are still positive get Positive; everything else gets 0.
type Ladder struct {
	steps    []Step
	positive float64
}

// MustLadder panics unless thresholds are strictly descending and scores
// never increase down the ladder.
func MustLadder(positive float64, steps ...Step) Ladder {
	for i := 1; i < len(steps); i++ {
		if steps[i].Threshold >= steps[i-1].Threshold {
			panic(fmt.Sprintf("abc: ladder threshold %v is not below %v", steps[i].Threshold, steps[i-1].Threshold))
		}
		if steps[i].Score > steps[i-1].Score {
			panic(fmt.Sprintf("abc: ladder score %v rises above %v", steps[i].Score, steps[i-1].Score))
		}
	}
	if n := len(steps); n > 0 && positive > steps[n-1].Score {
		panic("abc: positive score exceeds lowest step")
	}
	return Ladder{steps: steps, positive: positive}
}

// Score maps value onto the ladder. NaN scores 0.
func (l Ladder) Score(value float64) float64 {
	for _, s := range l.steps {
		if value >= s.Threshold {
			return s.Score
		}
	}
	if value > 0 {
		return l.positive
	}
	return 0
}

// Steps returns a copy of the breakpoints.
func (l Ladder) Steps() []Step {
	return append([]Step(nil), l.steps...)
}

var (
	RevenueLadder = MustLadder(0.1,
		Step{50000, 1.0}, Step{20000, 0.9}, Step{10000, 0.8}, Step{5000, 0.7}, Step{2000, 0.6},
		Step{1000, 0.5}, Step{500, 0.4}, Step{100, 0.3}, Step{50, 0.2},
	)

	VolumeLadder = MustLadder(0.1,
		Step{5000, 1.0}, Step{2000, 0.9}, Step{1000, 0.8}, Step{500, 0.7}, Step{200, 0.6},
		Step{100, 0.5}, Step{50, 0.4}, Step{20, 0.3}, Step{10, 0.2},
	)

	FrequencyLadder = MustLadder(0.1,
		Step{100, 1.0}, Step{75, 0.9}, Step{50, 0.8}, Step{30, 0.7}, Step{20, 0.6},
		Step{15, 0.5}, Step{10, 0.4}, Step{5, 0.3}, Step{3, 0.2},
	)

	PriceLadder = MustLadder(0.1,
		Step{1000, 1.0}, Step{500, 0.8}, Step{200, 0.6}, Step{100, 0.5},
		Step{50, 0.4}, Step{20, 0.3}, Step{10, 0.2},
	)

	OrderValueLadder = MustLadder(0.1,
		Step{500, 1.0}, Step{200, 0.8}, Step{100, 0.6}, Step{50, 0.4}, Step{20, 0.2},
	)

	// Seasonality has no positive floor: anything under 0.5 scores 0.
	SeasonalityLadder = MustLadder(0,
		Step{2.0, 1.0}, Step{1.5, 0.8}, Step{1.2, 0.6}, Step{0.8, 0.4}, Step{0.5, 0.2},
	)
)
