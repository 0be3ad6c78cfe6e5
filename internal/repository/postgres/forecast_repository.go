package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const forecastSelect = `
	SELECT f.id, f.product_id, COALESCE(p.name, '') AS product_name, f.predicted_date,
	       f.predicted_demand, f.confidence, f.abc_category, f.created_at
	FROM demand_forecasts f
	LEFT JOIN products p ON p.id = f.product_id`

const dateLayout = "2006-01-02"

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) repository.ForecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) ReplaceFrom(ctx context.Context, from time.Time, forecasts []domain.DemandForecast) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM demand_forecasts WHERE predicted_date >= $1`, from.Format(dateLayout)); err != nil {
			return fmt.Errorf("error clearing forecasts: %w", err)
		}

		if len(forecasts) == 0 {
			return nil
		}

		ids := make([]int64, len(forecasts))
		dates := make([]string, len(forecasts))
		demand := make([]float64, len(forecasts))
		confidence := make([]float64, len(forecasts))
		tiers := make([]string, len(forecasts))
		for i, f := range forecasts {
			ids[i] = f.ProductID
			dates[i] = f.PredictedDate.Format(dateLayout)
			demand[i] = f.PredictedDemand
			confidence[i] = f.Confidence
			tiers[i] = string(f.Tier)
		}

		query := `
			INSERT INTO demand_forecasts (product_id, predicted_date, predicted_demand, confidence, abc_category)
			SELECT * FROM UNNEST($1::bigint[], $2::date[], $3::float8[], $4::float8[], $5::text[])`
		if _, err := tx.ExecContext(ctx, query,
			pq.Array(ids), pq.Array(dates), pq.Array(demand), pq.Array(confidence), pq.Array(tiers)); err != nil {
			return fmt.Errorf("error inserting forecasts: %w", err)
		}
		return nil
	})
}

func (r *forecastRepository) ListForProduct(ctx context.Context, productID int64, from time.Time) ([]domain.DemandForecast, error) {
	query := forecastSelect + ` WHERE f.product_id = $1 AND f.predicted_date >= $2 ORDER BY f.predicted_date`
	forecasts := []domain.DemandForecast{}
	if err := r.db.SelectContext(ctx, &forecasts, query, productID, from.Format(dateLayout)); err != nil {
		return nil, fmt.Errorf("error listing forecasts for product %d: %w", productID, err)
	}
	return forecasts, nil
}

func (r *forecastRepository) ListBetween(ctx context.Context, start, end *time.Time) ([]domain.DemandForecast, error) {
	var (
		clauses    []string
		args       []interface{}
		argCounter = 1
	)
	if start != nil {
		clauses = append(clauses, fmt.Sprintf("f.predicted_date >= $%d", argCounter))
		args = append(args, start.Format(dateLayout))
		argCounter++
	}
	if end != nil {
		clauses = append(clauses, fmt.Sprintf("f.predicted_date <= $%d", argCounter))
		args = append(args, end.Format(dateLayout))
		argCounter++
	}

	query := forecastSelect + ` WHERE 1=1`
	if len(clauses) > 0 {
		query += " AND " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY f.predicted_date, f.product_id`

	forecasts := []domain.DemandForecast{}
	if err := r.db.SelectContext(ctx, &forecasts, query, args...); err != nil {
		return nil, fmt.Errorf("error listing forecasts: %w", err)
	}
	return forecasts, nil
}

func (r *forecastRepository) ListHighConfidence(ctx context.Context, from time.Time, minConfidence float64) ([]domain.DemandForecast, error) {
	query := forecastSelect + ` WHERE f.predicted_date >= $1 AND f.confidence >= $2 ORDER BY f.confidence DESC, f.predicted_date`
	forecasts := []domain.DemandForecast{}
	if err := r.db.SelectContext(ctx, &forecasts, query, from.Format(dateLayout), minConfidence); err != nil {
		return nil, fmt.Errorf("error listing high confidence forecasts: %w", err)
	}
	return forecasts, nil
}
