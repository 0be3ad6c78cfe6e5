// Package pipeline records forecast generation runs.
package pipeline

import "time"

// RunStatus represents the current state of a generation run
type RunStatus string

const (
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// Run tracks one forecast generation
type Run struct {
	ID            int64      `json:"id"`
	Status        RunStatus  `json:"status"`
	HorizonDays   int        `json:"horizon_days"`
	ProductCount  int        `json:"product_count"`
	ForecastCount int        `json:"forecast_count"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}

// Duration is zero until the run finishes.
func (r Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
