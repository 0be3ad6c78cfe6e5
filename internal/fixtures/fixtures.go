// Package fixtures builds the demo catalogue and its sales history.
package fixtures

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	DefaultSeed     = 42
	DefaultProducts = 50
	historyYears    = 2
)

var productNames = map[string][]string{
	"Electronics":   {"Smartphone", "Laptop", "Tablet", "Headphones", "Smart Watch", "Camera", "Gaming Console", "Bluetooth Speaker"},
	"Clothing":      {"T-Shirt", "Jeans", "Jacket", "Sneakers", "Dress", "Hoodie", "Pants", "Shirt"},
	"Books":         {"Fiction Novel", "Science Book", "Biography", "Cookbook", "Travel Guide", "Self-Help", "Mystery Novel", "Technical Manual"},
	"Home & Garden": {"Plant Pot", "Garden Tool", "Home Decor", "Kitchen Appliance", "Furniture", "Light Fixture", "Storage Box", "Cleaning Supply"},
	"Sports":        {"Basketball", "Soccer Ball", "Tennis Racket", "Yoga Mat", "Dumbbells", "Running Shoes", "Bicycle", "Swimming Goggles"},
	"Toys":          {"Action Figure", "Board Game", "Puzzle", "Remote Control Car", "Doll", "Building Blocks", "Art Set", "Musical Toy"},
}

// Generator draws every value from one seeded stream, so the same seed and
// call order always give the same data.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Products returns n unsaved products spread over the default categories.
func (g *Generator) Products(n int) []domain.Product {
	categories := domain.DefaultCategories
	products := make([]domain.Product, 0, n)
	for i := 1; i <= n; i++ {
		category := categories[g.rng.IntN(len(categories))]
		products = append(products, domain.Product{
			Name:         productName(category, i),
			SKU:          fmt.Sprintf("SKU%04d", i),
			Category:     category,
			UnitPrice:    decimal.NewFromFloat(g.rng.Float64()*500 + 10).Round(2),
			CurrentStock: g.rng.IntN(1000),
			MinimumStock: 10 + g.rng.IntN(40),
		})
	}
	return products
}

// Sales returns daily sales for each product from two years before now up to
// now. Days that round down to zero units are left out.
func (g *Generator) Sales(products []domain.Product, now time.Time) []domain.SalesRecord {
	start := now.AddDate(-historyYears, 0, 0)
	var sales []domain.SalesRecord
	for _, p := range products {
		baseline := 1 + g.rng.IntN(19)
		for date := start; !date.After(now); date = date.AddDate(0, 0, 1) {
			qty := int(float64(baseline) * seasonalMultiplier(date, p.Category) * (0.5 + g.rng.Float64()))
			if qty <= 0 {
				continue
			}
			// unit price varies by up to 10% either way
			jitter := decimal.NewFromFloat(0.9 + g.rng.Float64()*0.2)
			sales = append(sales, domain.SalesRecord{
				ProductID:    p.ID,
				Date:         date,
				QuantitySold: qty,
				UnitPrice:    p.UnitPrice.Mul(jitter).Round(2),
			})
		}
	}
	return sales
}

func productName(category string, index int) string {
	names, ok := productNames[category]
	if !ok {
		return fmt.Sprintf("Generic Product %d", index)
	}
	return fmt.Sprintf("%s %c", names[index%len(names)], 'A'+rune(index%26))
}

func seasonalMultiplier(date time.Time, category string) float64 {
	m := date.Month()
	switch category {
	case "Electronics":
		if m == time.November || m == time.December || m == time.January {
			return 1.5
		}
	case "Clothing":
		if m == time.March || m == time.April || m == time.September || m == time.October {
			return 1.3
		}
	case "Sports":
		if m >= time.April && m <= time.September {
			return 1.4
		}
		return 0.7
	case "Toys":
		switch m {
		case time.November, time.December:
			return 2.0
		case time.June, time.July:
			return 1.2
		}
	}
	return 1.0
}

type ProductStore interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
}

type SalesWriter interface {
	BulkInsert(ctx context.Context, records []domain.SalesRecord) (int, error)
}

// Result counts what Seed wrote.
type Result struct {
	Products int
	Sales    int
	Skipped  bool
}

// Seed writes the demo catalogue and its history unless products already
// exist.
func Seed(ctx context.Context, products ProductStore, sales SalesWriter, seed uint64, now time.Time) (*Result, error) {
	existing, err := products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		log.Info().Int("products", len(existing)).Msg("fixtures: catalogue not empty, skipping")
		return &Result{Skipped: true}, nil
	}

	g := NewGenerator(seed)
	catalogue := g.Products(DefaultProducts)
	for i := range catalogue {
		if err := products.Create(ctx, &catalogue[i]); err != nil {
			return nil, fmt.Errorf("create product %s: %w", catalogue[i].SKU, err)
		}
	}

	history := g.Sales(catalogue, now.UTC().Truncate(24*time.Hour))
	inserted, err := sales.BulkInsert(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("insert sales history: %w", err)
	}

	log.Info().Int("products", len(catalogue)).Int("sales", inserted).Msg("fixtures: seeded")
	return &Result{Products: len(catalogue), Sales: inserted}, nil
}
