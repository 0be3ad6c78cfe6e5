package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/cache"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository"
)

type ProductService struct {
	repo      repository.ProductRepository
	dashboard cache.DashboardCache
	portfolio cache.PortfolioCache
}

func NewProductService(repo repository.ProductRepository, dashboard cache.DashboardCache, portfolio cache.PortfolioCache) *ProductService {
	if dashboard == nil {
		dashboard = cache.NewNoopDashboardCache()
	}
	if portfolio == nil {
		portfolio = cache.NewNoopPortfolioCache()
	}
	return &ProductService{repo: repo, dashboard: dashboard, portfolio: portfolio}
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductView, int, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toViews(products), total, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.ProductView, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := domain.NewProductView(*p)
	return &view, nil
}

func (s *ProductService) Create(ctx context.Context, input domain.ProductInput) (*domain.ProductView, error) {
	input, err := validateProductInput(input)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.SKUExists(ctx, input.SKU, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("sku %s: %w", input.SKU, domain.ErrDuplicateSKU)
	}

	p := productFromInput(input)
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	view := domain.NewProductView(p)
	return &view, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, input domain.ProductInput) (*domain.ProductView, error) {
	input, err := validateProductInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.SKUExists(ctx, input.SKU, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("sku %s: %w", input.SKU, domain.ErrDuplicateSKU)
	}

	p := productFromInput(input)
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, &p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	view := domain.NewProductView(p)
	return &view, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Categories lists distinct categories, or the defaults for an empty catalogue.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return append([]string(nil), domain.DefaultCategories...), nil
	}
	return categories, nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	invalidate(ctx, "products", s.dashboard, s.portfolio)
}

func validateProductInput(in domain.ProductInput) (domain.ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Category = strings.TrimSpace(in.Category)

	switch {
	case in.Name == "":
		return in, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case in.SKU == "":
		return in, fmt.Errorf("%w: sku is required", domain.ErrInvalidInput)
	case in.UnitPrice.IsNegative():
		return in, fmt.Errorf("%w: unit price must not be negative", domain.ErrInvalidInput)
	case in.CurrentStock < 0:
		return in, fmt.Errorf("%w: current stock must not be negative", domain.ErrInvalidInput)
	case in.MinimumStock < 0:
		return in, fmt.Errorf("%w: minimum stock must not be negative", domain.ErrInvalidInput)
	}
	return in, nil
}

func productFromInput(in domain.ProductInput) domain.Product {
	return domain.Product{
		Name:         in.Name,
		SKU:          in.SKU,
		Category:     in.Category,
		UnitPrice:    in.UnitPrice,
		CurrentStock: in.CurrentStock,
		MinimumStock: in.MinimumStock,
	}
}

func toViews(products []domain.Product) []domain.ProductView {
	views := make([]domain.ProductView, len(products))
	for i, p := range products {
		views[i] = domain.NewProductView(p)
	}
	return views
}
