package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryStock struct {
	Category      string          `json:"category" db:"category"`
	TotalProducts int             `json:"total_products" db:"total_products"`
	LowStockCount int             `json:"low_stock_count" db:"low_stock_count"`
	TotalValue    decimal.Decimal `json:"total_value" db:"total_value"`
}

type RevenuePoint struct {
	Date    time.Time       `json:"date" db:"sale_date"`
	Revenue decimal.Decimal `json:"revenue" db:"revenue"`
}

type TopProduct struct {
	ProductID int64           `json:"product_id" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	TotalSold int             `json:"total_sold" db:"total_sold"`
	Revenue   decimal.Decimal `json:"revenue" db:"revenue"`
}

// Dashboard aggregates stock and the trailing 30 days of sales.
type Dashboard struct {
	TotalProducts       int             `json:"total_products"`
	LowStockAlerts      int             `json:"low_stock_alerts"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	MonthlyRevenue      decimal.Decimal `json:"monthly_revenue"`
	CategoryStock       []CategoryStock `json:"category_stock"`
	RevenueData         []RevenuePoint  `json:"revenue_data"`
	TopProducts         []TopProduct    `json:"top_products"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

type InventoryReport struct {
	GeneratedAt             time.Time       `json:"generated_at"`
	PeriodStart             time.Time       `json:"period_start"`
	PeriodEnd               time.Time       `json:"period_end"`
	TotalProducts           int             `json:"total_products"`
	TotalInventoryValue     decimal.Decimal `json:"total_inventory_value"`
	LowStockProductsCount   int             `json:"low_stock_products_count"`
	OutOfStockProductsCount int             `json:"out_of_stock_products_count"`
	TotalSalesInPeriod      decimal.Decimal `json:"total_sales_in_period"`
	TotalUnitsSoldInPeriod  int             `json:"total_units_sold_in_period"`
}
