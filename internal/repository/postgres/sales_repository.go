package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const salesColumns = `id, product_id, sale_date, quantity_sold, unit_price`

// salesInsertChunk bounds the array sizes sent per INSERT.
const salesInsertChunk = 5000

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.SalesRecord, error) {
	query := `SELECT ` + salesColumns + ` FROM sales_history WHERE sale_date >= $1 AND sale_date <= $2 ORDER BY sale_date, id`
	records := []domain.SalesRecord{}
	if err := r.db.SelectContext(ctx, &records, query, start, end); err != nil {
		return nil, fmt.Errorf("error listing sales: %w", err)
	}
	return records, nil
}

func (r *salesRepository) ListForProduct(ctx context.Context, productID int64, since time.Time) ([]domain.SalesRecord, error) {
	query := `SELECT ` + salesColumns + ` FROM sales_history WHERE product_id = $1 AND sale_date >= $2 ORDER BY sale_date DESC, id DESC`
	records := []domain.SalesRecord{}
	if err := r.db.SelectContext(ctx, &records, query, productID, since); err != nil {
		return nil, fmt.Errorf("error listing sales for product %d: %w", productID, err)
	}
	return records, nil
}

func (r *salesRepository) DailyRevenue(ctx context.Context, since time.Time) ([]domain.RevenuePoint, error) {
	query := `
		SELECT DATE(sale_date) AS sale_date, SUM(quantity_sold * unit_price) AS revenue
		FROM sales_history
		WHERE sale_date >= $1
		GROUP BY DATE(sale_date)
		ORDER BY DATE(sale_date)`

	points := []domain.RevenuePoint{}
	if err := r.db.SelectContext(ctx, &points, query, since); err != nil {
		return nil, fmt.Errorf("error getting daily revenue: %w", err)
	}
	return points, nil
}

func (r *salesRepository) TopProducts(ctx context.Context, since time.Time, limit int) ([]domain.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT p.id AS product_id, p.name,
		       SUM(s.quantity_sold) AS total_sold,
		       SUM(s.quantity_sold * s.unit_price) AS revenue
		FROM sales_history s
		JOIN products p ON p.id = s.product_id
		WHERE s.sale_date >= $1
		GROUP BY p.id, p.name
		ORDER BY revenue DESC
		LIMIT $2`

	top := []domain.TopProduct{}
	if err := r.db.SelectContext(ctx, &top, query, since, limit); err != nil {
		return nil, fmt.Errorf("error getting top products: %w", err)
	}
	return top, nil
}

func (r *salesRepository) DailyQuantities(ctx context.Context, start, end time.Time) ([]domain.DailyQuantity, error) {
	query := `
		SELECT product_id, DATE(sale_date) AS sale_date, SUM(quantity_sold) AS quantity
		FROM sales_history
		WHERE sale_date >= $1 AND sale_date < $2
		GROUP BY product_id, DATE(sale_date)`

	rows := []domain.DailyQuantity{}
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("error getting daily quantities: %w", err)
	}
	return rows, nil
}

// BulkInsert writes records in one transaction using array unnesting.
func (r *salesRepository) BulkInsert(ctx context.Context, records []domain.SalesRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO sales_history (product_id, sale_date, quantity_sold, unit_price)
		SELECT * FROM UNNEST($1::bigint[], $2::timestamptz[], $3::int[], $4::numeric[])`

	inserted := 0
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for start := 0; start < len(records); start += salesInsertChunk {
			end := min(start+salesInsertChunk, len(records))
			chunk := records[start:end]

			ids := make([]int64, len(chunk))
			dates := make([]string, len(chunk))
			qty := make([]int64, len(chunk))
			prices := make([]string, len(chunk))
			for i, rec := range chunk {
				ids[i] = rec.ProductID
				dates[i] = rec.Date.UTC().Format(time.RFC3339Nano)
				qty[i] = int64(rec.QuantitySold)
				prices[i] = rec.UnitPrice.String()
			}

			res, err := tx.ExecContext(ctx, query, pq.Array(ids), pq.Array(dates), pq.Array(qty), pq.Array(prices))
			if err != nil {
				return fmt.Errorf("error inserting sales chunk at %d: %w", start, err)
			}
			n, _ := res.RowsAffected()
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
