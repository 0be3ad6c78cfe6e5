package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
)

type memProducts struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	nextID   int64
}

func newMemProducts(products ...domain.Product) *memProducts {
	m := &memProducts{products: map[int64]domain.Product{}, nextID: 1}
	for _, p := range products {
		m.products[p.ID] = p
		m.nextID = max(m.nextID, p.ID+1)
	}
	return m
}

func (m *memProducts) all() []domain.Product {
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memProducts) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	filter.Normalize()
	var out []domain.Product
	for _, p := range m.all() {
		if filter.Category == "" || p.Category == filter.Category {
			out = append(out, p)
		}
	}
	start := min(filter.Offset(), len(out))
	end := min(start+filter.PageSize, len(out))
	return out[start:end], len(out), nil
}

func (m *memProducts) ListAll(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.all(), nil
}

func (m *memProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) SKUExists(_ context.Context, sku string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.SKU == sku && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProducts) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	m.products[p.ID] = *p
	return nil
}

func (m *memProducts) Update(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memProducts) UpdateStock(_ context.Context, id int64, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.products[id]
	p.CurrentStock = stock
	m.products[id] = p
	return nil
}

func (m *memProducts) UpdateMinimumStock(_ context.Context, id int64, minimum int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.products[id]
	p.MinimumStock = minimum
	m.products[id] = p
	return nil
}

func (m *memProducts) Categories(context.Context) ([]string, error) { return nil, nil }

func (m *memProducts) LowStock(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.all() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) CategoryStock(context.Context) ([]domain.CategoryStock, error) {
	return []domain.CategoryStock{}, nil
}

// noSales is an empty history.
type noSales struct{}

func (noSales) ListBetween(context.Context, time.Time, time.Time) ([]domain.SalesRecord, error) {
	return nil, nil
}

func (noSales) ListForProduct(context.Context, int64, time.Time) ([]domain.SalesRecord, error) {
	return nil, nil
}

func (noSales) DailyRevenue(context.Context, time.Time) ([]domain.RevenuePoint, error) {
	return []domain.RevenuePoint{}, nil
}

func (noSales) TopProducts(context.Context, time.Time, int) ([]domain.TopProduct, error) {
	return []domain.TopProduct{}, nil
}

func (noSales) DailyQuantities(context.Context, time.Time, time.Time) ([]domain.DailyQuantity, error) {
	return nil, nil
}

func (noSales) BulkInsert(_ context.Context, records []domain.SalesRecord) (int, error) {
	return len(records), nil
}

type memForecasts struct {
	mu        sync.Mutex
	forecasts []domain.DemandForecast
}

func (m *memForecasts) ReplaceFrom(_ context.Context, from time.Time, forecasts []domain.DemandForecast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forecasts = append([]domain.DemandForecast(nil), forecasts...)
	return nil
}

func (m *memForecasts) ListForProduct(_ context.Context, productID int64, from time.Time) ([]domain.DemandForecast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DemandForecast
	for _, f := range m.forecasts {
		if f.ProductID == productID && !f.PredictedDate.Before(from) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memForecasts) ListBetween(_ context.Context, start, end *time.Time) ([]domain.DemandForecast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DemandForecast
	for _, f := range m.forecasts {
		if (start == nil || !f.PredictedDate.Before(*start)) && (end == nil || !f.PredictedDate.After(*end)) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memForecasts) ListHighConfidence(_ context.Context, from time.Time, minConfidence float64) ([]domain.DemandForecast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DemandForecast
	for _, f := range m.forecasts {
		if !f.PredictedDate.Before(from) && f.Confidence >= minConfidence {
			out = append(out, f)
		}
	}
	return out, nil
}
