package abc

import (
	"bytes"
	"testing"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analysisNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func dailySales(productID int64, days, qty int, price string) []Sale {
	sales := make([]Sale, 0, days)
	for i := 0; i < days; i++ {
		sales = append(sales, Sale{
			ProductID: productID,
			Date:      analysisNow.AddDate(0, 0, -i),
			Quantity:  qty,
			UnitPrice: decimal.RequireFromString(price),
		})
	}
	return sales
}

func TestSeasonalityIndexEmptyIsOne(t *testing.T) {
	assert.Equal(t, 1.0, SeasonalityIndex(nil, time.March))
	assert.Equal(t, 1.0, SeasonalityIndex([]Sale{}, time.January))
}

func TestSeasonalityIndex(t *testing.T) {
	sales := []Sale{
		{Date: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), Quantity: 30},
		{Date: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), Quantity: 60},
		{Date: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), Quantity: 30},
	}

	// 30 / (120 / 12)
	assert.InDelta(t, 3.0, SeasonalityIndex(sales, time.March), 1e-12)
	assert.Equal(t, 0.0, SeasonalityIndex(sales, time.June))
}

func TestAggregateRespectsWindow(t *testing.T) {
	start := analysisNow.Add(-DefaultWindow)
	sales := []Sale{
		{Date: analysisNow.AddDate(0, 0, -1), Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		{Date: analysisNow.AddDate(0, 0, -10), Quantity: 3, UnitPrice: decimal.NewFromInt(20)},
		{Date: analysisNow.AddDate(0, 0, -120), Quantity: 100, UnitPrice: decimal.NewFromInt(20)},
		{Date: analysisNow.AddDate(0, 0, 1), Quantity: 100, UnitPrice: decimal.NewFromInt(20)},
	}

	agg := Aggregate(sales, start, analysisNow)

	assert.True(t, agg.Revenue.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 5, agg.Volume)
	assert.Equal(t, 2, agg.Frequency)
	assert.True(t, agg.AverageOrderValue.Equal(decimal.NewFromInt(40)))
}

func TestAggregateWithoutSales(t *testing.T) {
	agg := Aggregate(nil, analysisNow.Add(-DefaultWindow), analysisNow)

	assert.True(t, agg.Revenue.IsZero())
	assert.True(t, agg.AverageOrderValue.IsZero())
	assert.Equal(t, 0, agg.Frequency)
	assert.Equal(t, 1.0, agg.SeasonalityIndex)
}

func TestAnalyzePortfolioRollUp(t *testing.T) {
	products := []ProductAggregate{
		{ID: 1, Name: "Laptop", SKU: "SKU0001", Category: "Electronics", UnitPrice: decimal.NewFromInt(1200)},
		{ID: 2, Name: "T-Shirt", SKU: "SKU0002", Category: "Clothing", UnitPrice: decimal.NewFromInt(25)},
		{ID: 3, Name: "Cookbook", SKU: "SKU0003", Category: "Books", UnitPrice: decimal.NewFromInt(15)},
	}

	var sales []Sale
	sales = append(sales, dailySales(1, 89, 60, "1200")...)
	sales = append(sales, dailySales(2, 40, 6, "25")...)
	sales = append(sales, Sale{ProductID: 99, Date: analysisNow, Quantity: 1, UnitPrice: decimal.NewFromInt(5)})

	analyzer := NewAnalyzer(DefaultWindow, zerolog.Nop())
	summary := analyzer.Analyze(products, sales, analysisNow)

	require.Len(t, summary.Products, 3)
	assert.Equal(t, 3, summary.TotalProducts)
	assert.Equal(t, summary.TotalProducts, summary.ACount+summary.BCount+summary.CCount)
	assert.Equal(t, analysisNow.Add(-DefaultWindow), summary.PeriodStart)

	laptop, ok := summary.Find(1)
	require.True(t, ok)
	assert.Equal(t, domain.TierA, laptop.Tier)
	assert.Equal(t, 89, laptop.Frequency)

	cookbook, ok := summary.Find(3)
	require.True(t, ok)
	assert.Equal(t, domain.TierC, cookbook.Tier)
	assert.True(t, cookbook.Revenue.IsZero())

	perTier := map[domain.Tier]decimal.Decimal{}
	for _, p := range summary.Products {
		perTier[p.Tier] = perTier[p.Tier].Add(p.Revenue)
	}
	assert.True(t, summary.ARevenue.Equal(perTier[domain.TierA]))
	assert.True(t, summary.BRevenue.Equal(perTier[domain.TierB]))
	assert.True(t, summary.CRevenue.Equal(perTier[domain.TierC]))
}

func TestAnalyzePortfolioSoftDefaultsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	analyzer := NewAnalyzer(DefaultWindow, zerolog.New(&buf))

	products := []ProductAggregate{
		{ID: 1, SKU: "BROKEN", UnitPrice: decimal.NewFromInt(-50)},
		{ID: 2, SKU: "FINE", UnitPrice: decimal.NewFromInt(10)},
	}

	summary := analyzer.Analyze(products, dailySales(1, 5, 1, "10"), analysisNow)

	broken, ok := summary.Find(1)
	require.True(t, ok)
	assert.Equal(t, domain.TierC, broken.Tier)
	assert.True(t, broken.Defaulted)
	assert.Equal(t, 2, summary.CCount)
	assert.True(t, summary.CRevenue.Equal(decimal.NewFromInt(50)))
	assert.Contains(t, buf.String(), "defaulting to C")
	assert.Contains(t, buf.String(), `"sku":"BROKEN"`)
}

func TestAnalyzeEmptyPortfolio(t *testing.T) {
	summary := NewAnalyzer(0, zerolog.Nop()).Analyze(nil, nil, analysisNow)

	assert.Equal(t, 0, summary.TotalProducts)
	assert.Empty(t, summary.Products)
	assert.True(t, summary.ARevenue.IsZero())
}
