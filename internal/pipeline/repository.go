package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RunRecorder is what the prediction service needs from run tracking.
type RunRecorder interface {
	Start(ctx context.Context, horizonDays int) (*Run, error)
	Complete(ctx context.Context, run *Run, productCount, forecastCount int) error
	Fail(ctx context.Context, run *Run, cause error) error
	LastCompleted(ctx context.Context) (*Run, error)
}

// Repository handles database operations for run tracking
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new run repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Start inserts a run in processing state.
func (r *Repository) Start(ctx context.Context, horizonDays int) (*Run, error) {
	run := &Run{Status: StatusProcessing, HorizonDays: horizonDays}

	query := `
		INSERT INTO forecast_runs (status, horizon_days)
		VALUES ($1, $2)
		RETURNING id, started_at
	`
	if err := r.db.QueryRowContext(ctx, query, run.Status, horizonDays).Scan(&run.ID, &run.StartedAt); err != nil {
		return nil, fmt.Errorf("failed to create forecast run: %w", err)
	}
	return run, nil
}

// Complete marks a run completed with its counts.
func (r *Repository) Complete(ctx context.Context, run *Run, productCount, forecastCount int) error {
	now := time.Now()
	run.Status = StatusCompleted
	run.ProductCount = productCount
	run.ForecastCount = forecastCount
	run.CompletedAt = &now
	return r.update(ctx, run)
}

// Fail marks a run failed with the cause.
func (r *Repository) Fail(ctx context.Context, run *Run, cause error) error {
	now := time.Now()
	run.Status = StatusFailed
	run.CompletedAt = &now
	if cause != nil {
		run.ErrorMessage = cause.Error()
	}
	return r.update(ctx, run)
}

func (r *Repository) update(ctx context.Context, run *Run) error {
	query := `
		UPDATE forecast_runs
		SET status = $1, product_count = $2, forecast_count = $3,
		    completed_at = $4, error_message = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query,
		run.Status, run.ProductCount, run.ForecastCount,
		run.CompletedAt, run.ErrorMessage, run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update forecast run %d: %w", run.ID, err)
	}
	return nil
}

// LastCompleted returns the most recent completed run, or nil when none exists.
func (r *Repository) LastCompleted(ctx context.Context) (*Run, error) {
	query := `
		SELECT id, status, horizon_days, product_count, forecast_count,
		       started_at, completed_at, error_message
		FROM forecast_runs
		WHERE status = $1
		ORDER BY completed_at DESC
		LIMIT 1
	`

	run := &Run{}
	err := r.db.QueryRowContext(ctx, query, StatusCompleted).Scan(
		&run.ID, &run.Status, &run.HorizonDays, &run.ProductCount,
		&run.ForecastCount, &run.StartedAt, &run.CompletedAt, &run.ErrorMessage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last forecast run: %w", err)
	}
	return run, nil
}
