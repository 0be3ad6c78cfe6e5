package abc

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultWindow is the trailing analysis period.
const DefaultWindow = 90 * 24 * time.Hour

// ProductAggregate is the product snapshot an analysis run works from.
type ProductAggregate struct {
	ID           int64           `json:"product_id"`
	Name         string          `json:"product_name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CurrentStock int             `json:"current_stock"`
	MinimumStock int             `json:"minimum_stock"`
}

// Sale is the slice of a sales record the classifier needs.
type Sale struct {
	ProductID int64
	Date      time.Time
	Quantity  int
	UnitPrice decimal.Decimal
}

// SalesAggregate summarises one product's sales inside the window.
type SalesAggregate struct {
	Revenue           decimal.Decimal `json:"revenue"`
	Volume            int             `json:"volume"`
	Frequency         int             `json:"frequency"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	SeasonalityIndex  float64         `json:"seasonality_index"`
}

// Aggregate folds sales dated in [start, now] into a SalesAggregate. Sales
// of other products must already be filtered out.
func Aggregate(sales []Sale, start, now time.Time) SalesAggregate {
	var agg SalesAggregate
	inWindow := make([]Sale, 0, len(sales))
	for _, s := range sales {
		if s.Date.Before(start) || s.Date.After(now) {
			continue
		}
		inWindow = append(inWindow, s)
		agg.Revenue = agg.Revenue.Add(s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity))))
		agg.Volume += s.Quantity
		agg.Frequency++
	}

	if agg.Frequency > 0 {
		agg.AverageOrderValue = agg.Revenue.Div(decimal.NewFromInt(int64(agg.Frequency)))
	}
	agg.SeasonalityIndex = SeasonalityIndex(inWindow, now.Month())
	return agg
}

// SeasonalityIndex is the quantity sold in month divided by the average
// monthly quantity, taking the total as a year's worth. No sales gives 1.0.
func SeasonalityIndex(sales []Sale, month time.Month) float64 {
	var total, inMonth int
	for _, s := range sales {
		total += s.Quantity
		if s.Date.Month() == month {
			inMonth += s.Quantity
		}
	}
	if total <= 0 {
		return 1.0
	}
	return float64(inMonth) / (float64(total) / 12.0)
}
