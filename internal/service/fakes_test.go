package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/pipeline"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[int64]*domain.Product{}, nextID: 1}
	for _, p := range products {
		r.products[p.ID] = &p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *fakeProductRepo) sorted() []domain.Product {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeProductRepo) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	filter.Normalize()
	var matched []domain.Product
	for _, p := range r.sorted() {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.LowStockOnly && !p.IsLowStock() {
			continue
		}
		matched = append(matched, p)
	}
	start := min(filter.Offset(), len(matched))
	end := min(start+filter.PageSize, len(matched))
	return matched[start:end], len(matched), nil
}

func (r *fakeProductRepo) ListAll(context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) SKUExists(_ context.Context, sku string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) UpdateStock(_ context.Context, id int64, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = stock
	return nil
}

func (r *fakeProductRepo) UpdateMinimumStock(_ context.Context, id int64, minimum int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.MinimumStock = minimum
	return nil
}

func (r *fakeProductRepo) Categories(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range r.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeProductRepo) LowStock(context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for _, p := range r.sorted() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) CategoryStock(context.Context) ([]domain.CategoryStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byCat := map[string]*domain.CategoryStock{}
	for _, p := range r.sorted() {
		c, ok := byCat[p.Category]
		if !ok {
			c = &domain.CategoryStock{Category: p.Category}
			byCat[p.Category] = c
		}
		c.TotalProducts++
		if p.IsLowStock() {
			c.LowStockCount++
		}
		c.TotalValue = c.TotalValue.Add(p.InventoryValue())
	}
	var out []domain.CategoryStock
	for _, c := range byCat {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

type fakeSalesRepo struct {
	records []domain.SalesRecord
	err     error
}

func (r *fakeSalesRepo) ListBetween(_ context.Context, start, end time.Time) ([]domain.SalesRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.SalesRecord
	for _, s := range r.records {
		if !s.Date.Before(start) && !s.Date.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSalesRepo) ListForProduct(_ context.Context, productID int64, since time.Time) ([]domain.SalesRecord, error) {
	var out []domain.SalesRecord
	for _, s := range r.records {
		if s.ProductID == productID && !s.Date.Before(since) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeSalesRepo) DailyRevenue(_ context.Context, since time.Time) ([]domain.RevenuePoint, error) {
	byDay := map[string]*domain.RevenuePoint{}
	var keys []string
	for _, s := range r.records {
		if s.Date.Before(since) {
			continue
		}
		k := s.Date.Format(dayLayout)
		p, ok := byDay[k]
		if !ok {
			d, _ := time.Parse(dayLayout, k)
			p = &domain.RevenuePoint{Date: d}
			byDay[k] = p
			keys = append(keys, k)
		}
		p.Revenue = p.Revenue.Add(s.Revenue())
	}
	sort.Strings(keys)
	out := make([]domain.RevenuePoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byDay[k])
	}
	return out, nil
}

func (r *fakeSalesRepo) TopProducts(context.Context, time.Time, int) ([]domain.TopProduct, error) {
	return []domain.TopProduct{}, nil
}

func (r *fakeSalesRepo) DailyQuantities(_ context.Context, start, end time.Time) ([]domain.DailyQuantity, error) {
	var out []domain.DailyQuantity
	for _, s := range r.records {
		if s.Date.Before(start) || !s.Date.Before(end) {
			continue
		}
		y, m, d := s.Date.Date()
		out = append(out, domain.DailyQuantity{ProductID: s.ProductID, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Quantity: s.QuantitySold})
	}
	return out, nil
}

func (r *fakeSalesRepo) BulkInsert(_ context.Context, records []domain.SalesRecord) (int, error) {
	r.records = append(r.records, records...)
	return len(records), nil
}

type fakeForecastRepo struct {
	mu        sync.Mutex
	forecasts []domain.DemandForecast
	replaced  time.Time
	err       error
}

func (r *fakeForecastRepo) ReplaceFrom(_ context.Context, from time.Time, forecasts []domain.DemandForecast) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	kept := r.forecasts[:0]
	for _, f := range r.forecasts {
		if f.PredictedDate.Before(from) {
			kept = append(kept, f)
		}
	}
	r.forecasts = append(kept, forecasts...)
	r.replaced = from
	return nil
}

func (r *fakeForecastRepo) ListForProduct(_ context.Context, productID int64, from time.Time) ([]domain.DemandForecast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DemandForecast
	for _, f := range r.forecasts {
		if f.ProductID == productID && !f.PredictedDate.Before(from) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeForecastRepo) ListBetween(_ context.Context, start, end *time.Time) ([]domain.DemandForecast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DemandForecast
	for _, f := range r.forecasts {
		if start != nil && f.PredictedDate.Before(*start) {
			continue
		}
		if end != nil && f.PredictedDate.After(*end) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *fakeForecastRepo) ListHighConfidence(_ context.Context, from time.Time, minConfidence float64) ([]domain.DemandForecast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DemandForecast
	for _, f := range r.forecasts {
		if !f.PredictedDate.Before(from) && f.Confidence >= minConfidence {
			out = append(out, f)
		}
	}
	return out, nil
}

type fakeRuns struct {
	started   int
	completed []pipeline.Run
	failed    []string
}

func (f *fakeRuns) Start(_ context.Context, horizonDays int) (*pipeline.Run, error) {
	f.started++
	return &pipeline.Run{ID: int64(f.started), Status: pipeline.StatusProcessing, HorizonDays: horizonDays, StartedAt: time.Now()}, nil
}

func (f *fakeRuns) Complete(_ context.Context, run *pipeline.Run, productCount, forecastCount int) error {
	now := time.Now()
	run.Status = pipeline.StatusCompleted
	run.ProductCount = productCount
	run.ForecastCount = forecastCount
	run.CompletedAt = &now
	f.completed = append(f.completed, *run)
	return nil
}

func (f *fakeRuns) Fail(_ context.Context, run *pipeline.Run, cause error) error {
	f.failed = append(f.failed, cause.Error())
	return nil
}

func (f *fakeRuns) LastCompleted(context.Context) (*pipeline.Run, error) {
	if len(f.completed) == 0 {
		return nil, nil
	}
	run := f.completed[len(f.completed)-1]
	return &run, nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateAll(context.Context) error {
	c.calls++
	return errors.New("redis unavailable")
}
