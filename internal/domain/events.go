package domain

import "time"

const (
	EventStockUpdated   = "stock_updated"
	EventLowStockAlert  = "low_stock_alert"
	EventForecastsReady = "forecasts_generated"
)

type StockUpdated struct {
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	OldStock    int       `json:"old_stock"`
	NewStock    int       `json:"new_stock"`
	IsLowStock  bool      `json:"is_low_stock"`
	Reason      string    `json:"reason,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type LowStockAlert struct {
	ProductID    int64         `json:"product_id"`
	ProductName  string        `json:"product_name"`
	SKU          string        `json:"sku"`
	CurrentStock int           `json:"current_stock"`
	MinimumStock int           `json:"minimum_stock"`
	Message      string        `json:"message"`
	Severity     AlertSeverity `json:"severity"`
	Timestamp    time.Time     `json:"timestamp"`
}

type ForecastsGenerated struct {
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
}
