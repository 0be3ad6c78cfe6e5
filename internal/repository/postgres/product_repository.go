package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository"
)

const productColumns = `id, name, sku, category, unit_price, current_stock, minimum_stock, created_at, updated_at`

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// buildProductFilterClause returns the WHERE conditions for a filter,
// numbering placeholders from startIndex.
func buildProductFilterClause(filter domain.ProductFilter, startIndex int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	argCounter := startIndex

	if category := strings.TrimSpace(filter.Category); category != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(category) = LOWER($%d)", argCounter))
		args = append(args, category)
		argCounter++
	}

	if filter.LowStockOnly {
		clauses = append(clauses, "current_stock <= minimum_stock")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	filter.Normalize()
	where, args := buildProductFilterClause(filter, 1)

	countQuery := `SELECT COUNT(*) FROM products WHERE 1=1` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("error counting products: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE 1=1%s ORDER BY id LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, filter.Offset())

	products := []domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("error listing products: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("error listing all products: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting product %d: %w", id, err)
	}
	return &p, nil
}

func (r *productRepository) SKUExists(ctx context.Context, sku string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE sku = $1 AND id <> $2)`
	if err := r.db.GetContext(ctx, &exists, query, sku, excludeID); err != nil {
		return false, fmt.Errorf("error checking sku %q: %w", sku, err)
	}
	return exists, nil
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (name, sku, category, unit_price, current_stock, minimum_stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query, p.Name, p.SKU, p.Category, p.UnitPrice, p.CurrentStock, p.MinimumStock)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("error creating product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, sku = $2, category = $3, unit_price = $4,
		    current_stock = $5, minimum_stock = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	row := r.db.QueryRowxContext(ctx, query, p.Name, p.SKU, p.Category, p.UnitPrice, p.CurrentStock, p.MinimumStock, p.ID)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product %d: %w", p.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("error updating product %d: %w", p.ID, err)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting product %d: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (r *productRepository) UpdateStock(ctx context.Context, id int64, stock int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET current_stock = $1, updated_at = NOW() WHERE id = $2`, stock, id)
	if err != nil {
		return fmt.Errorf("error updating stock for product %d: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (r *productRepository) UpdateMinimumStock(ctx context.Context, id int64, minimum int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET minimum_stock = $1, updated_at = NOW() WHERE id = $2`, minimum, id)
	if err != nil {
		return fmt.Errorf("error updating minimum stock for product %d: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	query := `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("error getting categories: %w", err)
	}
	return categories, nil
}

func (r *productRepository) LowStock(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE current_stock <= minimum_stock ORDER BY current_stock, id`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("error getting low stock products: %w", err)
	}
	return products, nil
}

func (r *productRepository) CategoryStock(ctx context.Context) ([]domain.CategoryStock, error) {
	query := `
		SELECT
			category,
			COUNT(*) AS total_products,
			COUNT(*) FILTER (WHERE current_stock <= minimum_stock) AS low_stock_count,
			COALESCE(SUM(current_stock * unit_price), 0) AS total_value
		FROM products
		GROUP BY category
		ORDER BY category`

	rows := []domain.CategoryStock{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error getting category stock: %w", err)
	}
	return rows, nil
}

func expectOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
