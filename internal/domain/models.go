package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stock-keeping unit in the catalogue.
type Product struct {
	ID           int64           `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	SKU          string          `json:"sku" db:"sku"`
	Category     string          `json:"category" db:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	CurrentStock int             `json:"current_stock" db:"current_stock"`
	MinimumStock int             `json:"minimum_stock" db:"minimum_stock"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether stock is at or below the minimum threshold.
func (p Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinimumStock
}

// InventoryValue is stock on hand valued at the unit price.
func (p Product) InventoryValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

// ProductView is the API representation of a product.
type ProductView struct {
	Product
	StockStatus StockStatus `json:"stock_status"`
}

func NewProductView(p Product) ProductView {
	return ProductView{Product: p, StockStatus: StockStatusOf(p.CurrentStock, p.MinimumStock)}
}

// ProductInput carries the writable product fields for create and update.
type ProductInput struct {
	Name         string          `json:"name" binding:"required"`
	SKU          string          `json:"sku" binding:"required"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CurrentStock int             `json:"current_stock"`
	MinimumStock int             `json:"minimum_stock"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category     string
	LowStockOnly bool
	Page         int
	PageSize     int
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Normalize clamps paging to sane bounds.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// SalesRecord is one sale event of a product.
type SalesRecord struct {
	ID           int64           `json:"id" db:"id"`
	ProductID    int64           `json:"product_id" db:"product_id"`
	Date         time.Time       `json:"date" db:"sale_date"`
	QuantitySold int             `json:"quantity_sold" db:"quantity_sold"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// Revenue is quantity times unit price.
func (s SalesRecord) Revenue() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.QuantitySold)))
}

// DailyQuantity is the units sold by a product on one calendar day.
type DailyQuantity struct {
	ProductID int64     `db:"product_id"`
	Date      time.Time `db:"sale_date"`
	Quantity  int       `db:"quantity"`
}

// StockMovement is an inbound or outbound change of stock.
type StockMovement struct {
	Date         time.Time `json:"date"`
	MovementType string    `json:"movement_type"`
	Quantity     int       `json:"quantity"`
	Reason       string    `json:"reason"`
	Reference    string    `json:"reference"`
}
