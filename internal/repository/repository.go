package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	SKUExists(ctx context.Context, sku string, excludeID int64) (bool, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, stock int) error
	UpdateMinimumStock(ctx context.Context, id int64, minimum int) error
	Categories(ctx context.Context) ([]string, error)
	LowStock(ctx context.Context) ([]domain.Product, error)
	CategoryStock(ctx context.Context) ([]domain.CategoryStock, error)
}

type SalesRepository interface {
	// ListBetween returns sales dated in [start, end].
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.SalesRecord, error)
	ListForProduct(ctx context.Context, productID int64, since time.Time) ([]domain.SalesRecord, error)
	DailyRevenue(ctx context.Context, since time.Time) ([]domain.RevenuePoint, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]domain.TopProduct, error)
	DailyQuantities(ctx context.Context, start, end time.Time) ([]domain.DailyQuantity, error)
	BulkInsert(ctx context.Context, records []domain.SalesRecord) (int, error)
}

type ForecastRepository interface {
	// ReplaceFrom deletes forecasts dated on or after from and inserts
	// forecasts in the same transaction.
	ReplaceFrom(ctx context.Context, from time.Time, forecasts []domain.DemandForecast) error
	ListForProduct(ctx context.Context, productID int64, from time.Time) ([]domain.DemandForecast, error)
	// ListBetween returns forecasts dated in [start, end], both optional.
	ListBetween(ctx context.Context, start, end *time.Time) ([]domain.DemandForecast, error)
	ListHighConfidence(ctx context.Context, from time.Time, minConfidence float64) ([]domain.DemandForecast, error)
}
