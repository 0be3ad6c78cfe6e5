package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/cache"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/notify"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	dashboardWindowDays   = 30
	topProductsLimit      = 10
	defaultMovementDays   = 30
	defaultReportDays     = 30
	saleMovementType      = "Sale"
	saleMovementReason    = "Product Sale"
	defaultStockUpdateWhy = "Manual update"
)

type InventoryService struct {
	products  repository.ProductRepository
	sales     repository.SalesRepository
	broker    notify.Broker
	dashboard cache.DashboardCache
	portfolio cache.PortfolioCache
	now       func() time.Time
}

func NewInventoryService(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	broker notify.Broker,
	dashboard cache.DashboardCache,
	portfolio cache.PortfolioCache,
) *InventoryService {
	if broker == nil {
		broker = notify.NewMemoryBroker()
	}
	if dashboard == nil {
		dashboard = cache.NewNoopDashboardCache()
	}
	if portfolio == nil {
		portfolio = cache.NewNoopPortfolioCache()
	}
	return &InventoryService{
		products:  products,
		sales:     sales,
		broker:    broker,
		dashboard: dashboard,
		portfolio: portfolio,
		now:       time.Now,
	}
}

// UpdateStock sets the stock level and announces the change. A level at or
// below the minimum also raises a low-stock alert.
func (s *InventoryService) UpdateStock(ctx context.Context, productID int64, newStock int, reason string) (*domain.ProductView, error) {
	if newStock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
	}
	if reason == "" {
		reason = defaultStockUpdateWhy
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	oldStock := p.CurrentStock

	if err := s.products.UpdateStock(ctx, productID, newStock); err != nil {
		return nil, err
	}
	p.CurrentStock = newStock

	log.Info().
		Int64("product_id", productID).
		Int("old_stock", oldStock).
		Int("new_stock", newStock).
		Str("reason", reason).
		Msg("inventory: stock updated")

	s.invalidate(ctx)
	s.publish(ctx, domain.EventStockUpdated, domain.StockUpdated{
		ProductID:   p.ID,
		ProductName: p.Name,
		OldStock:    oldStock,
		NewStock:    newStock,
		IsLowStock:  p.IsLowStock(),
		Reason:      reason,
		Timestamp:   s.now().UTC(),
	})
	if p.IsLowStock() {
		s.alert(ctx, *p)
	}

	view := domain.NewProductView(*p)
	return &view, nil
}

// AdjustStock applies delta, flooring the result at zero.
func (s *InventoryService) AdjustStock(ctx context.Context, productID int64, delta int, reason string) (*domain.ProductView, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.UpdateStock(ctx, productID, max(0, p.CurrentStock+delta), reason)
}

func (s *InventoryService) SetMinimumStock(ctx context.Context, productID int64, minimum int) (*domain.ProductView, error) {
	if minimum < 0 {
		return nil, fmt.Errorf("%w: minimum stock must not be negative", domain.ErrInvalidInput)
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.products.UpdateMinimumStock(ctx, productID, minimum); err != nil {
		return nil, err
	}
	p.MinimumStock = minimum

	s.invalidate(ctx)
	if p.IsLowStock() {
		s.alert(ctx, *p)
	}

	view := domain.NewProductView(*p)
	return &view, nil
}

func (s *InventoryService) LowStock(ctx context.Context) ([]domain.ProductView, error) {
	products, err := s.products.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toViews(products), nil
}

// Movements lists the product's sales over the trailing days as outbound
// movements, newest first.
func (s *InventoryService) Movements(ctx context.Context, productID int64, days int) ([]domain.StockMovement, error) {
	if days <= 0 {
		days = defaultMovementDays
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	since := s.now().AddDate(0, 0, -days)
	records, err := s.sales.ListForProduct(ctx, productID, since)
	if err != nil {
		return nil, err
	}

	movements := make([]domain.StockMovement, len(records))
	for i, r := range records {
		movements[i] = domain.StockMovement{
			Date:         r.Date,
			MovementType: saleMovementType,
			Quantity:     -r.QuantitySold,
			Reason:       saleMovementReason,
			Reference:    fmt.Sprintf("Sale-%d", r.ID),
		}
	}
	return movements, nil
}

func (s *InventoryService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	if d, ok, err := s.dashboard.GetDashboard(ctx); err == nil && ok {
		return d, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("inventory: cache get dashboard failed")
	}

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.products.CategoryStock(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	since := now.AddDate(0, 0, -dashboardWindowDays)
	revenue, err := s.sales.DailyRevenue(ctx, since)
	if err != nil {
		return nil, err
	}
	top, err := s.sales.TopProducts(ctx, since, topProductsLimit)
	if err != nil {
		return nil, err
	}

	d := &domain.Dashboard{
		TotalProducts:       len(products),
		TotalInventoryValue: decimal.Zero,
		MonthlyRevenue:      decimal.Zero,
		CategoryStock:       categories,
		RevenueData:         revenue,
		TopProducts:         top,
		GeneratedAt:         now.UTC(),
	}
	for _, p := range products {
		if p.IsLowStock() {
			d.LowStockAlerts++
		}
		d.TotalInventoryValue = d.TotalInventoryValue.Add(p.InventoryValue())
	}
	for _, r := range revenue {
		d.MonthlyRevenue = d.MonthlyRevenue.Add(r.Revenue)
	}

	if err := s.dashboard.SetDashboard(ctx, d); err != nil {
		log.Warn().Err(err).Msg("inventory: cache set dashboard failed")
	}
	return d, nil
}

// Report summarises stock and sales between start and end. Missing bounds
// default to the last 30 days.
func (s *InventoryService) Report(ctx context.Context, start, end *time.Time) (*domain.InventoryReport, error) {
	now := s.now()
	periodEnd := now
	if end != nil {
		periodEnd = *end
	}
	periodStart := periodEnd.AddDate(0, 0, -defaultReportDays)
	if start != nil {
		periodStart = *start
	}
	if periodStart.After(periodEnd) {
		return nil, fmt.Errorf("%w: start date must not be after end date", domain.ErrInvalidInput)
	}

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.sales.ListBetween(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	report := &domain.InventoryReport{
		GeneratedAt:         now.UTC(),
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
		TotalProducts:       len(products),
		TotalInventoryValue: decimal.Zero,
		TotalSalesInPeriod:  decimal.Zero,
	}
	for _, p := range products {
		report.TotalInventoryValue = report.TotalInventoryValue.Add(p.InventoryValue())
		if p.IsLowStock() {
			report.LowStockProductsCount++
		}
		if p.CurrentStock == 0 {
			report.OutOfStockProductsCount++
		}
	}
	for _, r := range records {
		report.TotalSalesInPeriod = report.TotalSalesInPeriod.Add(r.Revenue())
		report.TotalUnitsSoldInPeriod += r.QuantitySold
	}
	return report, nil
}

// Subscribe exposes the event stream for live clients.
func (s *InventoryService) Subscribe(ctx context.Context) (<-chan notify.Event, func(), error) {
	return s.broker.Subscribe(ctx)
}

func (s *InventoryService) alert(ctx context.Context, p domain.Product) {
	s.publish(ctx, domain.EventLowStockAlert, domain.LowStockAlert{
		ProductID:    p.ID,
		ProductName:  p.Name,
		SKU:          p.SKU,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		Message:      fmt.Sprintf("%s is running low on stock (%d remaining)", p.Name, p.CurrentStock),
		Severity:     domain.SeverityFor(p.CurrentStock),
		Timestamp:    s.now().UTC(),
	})
}

// publish never fails the caller; the write already happened.
func (s *InventoryService) publish(ctx context.Context, eventType string, payload any) {
	event, err := notify.NewEvent(eventType, payload)
	if err == nil {
		err = s.broker.Publish(ctx, event)
	}
	if err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("inventory: publish event failed")
	}
}

func (s *InventoryService) invalidate(ctx context.Context) {
	invalidate(ctx, "inventory", s.dashboard, s.portfolio)
}
