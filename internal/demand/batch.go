package demand

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultHorizonDays = 30
	defaultWorkers     = 8
)

// SourceFactory hands each product its own randomness source so workers
// never share one.
type SourceFactory func(productID int64) Source

// SeededSources derives a PCG stream per product from seed, so a batch is
// reproducible regardless of scheduling.
func SeededSources(seed uint64) SourceFactory {
	return func(productID int64) Source {
		return rand.New(rand.NewPCG(seed, uint64(productID)))
	}
}

// Batch projects every product over a run of days.
type Batch struct {
	Projector Projector
	Days      int
	Workers   int
	Sources   SourceFactory
	Logger    zerolog.Logger
}

func NewBatch(days, workers int, sources SourceFactory, logger zerolog.Logger) *Batch {
	if days <= 0 {
		days = DefaultHorizonDays
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Batch{
		Projector: NewProjector(),
		Days:      days,
		Workers:   workers,
		Sources:   sources,
		Logger:    logger,
	}
}

// StartDate is the first forecast day for a run at now: tomorrow, at
// midnight in now's location.
func StartDate(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// Generate projects each product for Days days from start. Items that fail
// are logged and skipped. Output is ordered by product, then date.
func (b *Batch) Generate(ctx context.Context, products []domain.Product, start time.Time) ([]domain.DemandForecast, error) {
	results := make([][]domain.DemandForecast, len(products))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Workers)

	for i := range products {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					b.Logger.Error().
						Interface("panic", r).
						Int64("product_id", products[i].ID).
						Msg("demand: product projection panicked, skipping")
					results[i] = nil
				}
			}()
			results[i] = b.forProduct(products[i], start)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]domain.DemandForecast, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (b *Batch) forProduct(p domain.Product, start time.Time) []domain.DemandForecast {
	item := Item{
		ProductID:    p.ID,
		Category:     p.Category,
		UnitPrice:    p.UnitPrice.InexactFloat64(),
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
	}
	tier := QuickTier(item.Category, item.UnitPrice)
	rng := b.source(p.ID)

	forecasts := make([]domain.DemandForecast, 0, b.Days)
	for day := 0; day < b.Days; day++ {
		date := start.AddDate(0, 0, day)
		proj, err := b.Projector.Project(item, date, rng)
		if err != nil {
			b.Logger.Warn().
				Err(err).
				Int64("product_id", p.ID).
				Str("date", date.Format("2006-01-02")).
				Msg("demand: skipping forecast item")
			continue
		}
		forecasts = append(forecasts, domain.DemandForecast{
			ProductID:       p.ID,
			ProductName:     p.Name,
			PredictedDate:   date,
			PredictedDemand: proj.Demand,
			Confidence:      proj.Confidence,
			Tier:            tier,
		})
	}
	return forecasts
}

func (b *Batch) source(productID int64) Source {
	if b.Sources == nil {
		return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(productID)))
	}
	return b.Sources(productID)
}
