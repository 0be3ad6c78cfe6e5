package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/abc"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/cache"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/demand"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/export"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/notify"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/pipeline"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	performanceWindowDays = 30
	summaryTopProducts    = 10
)

// PredictionDeps wires the prediction service. Runs, Cache, Broker and
// Exporter are optional.
type PredictionDeps struct {
	Products  repository.ProductRepository
	Sales     repository.SalesRepository
	Forecasts repository.ForecastRepository
	Runs      pipeline.RunRecorder
	Batch     *demand.Batch
	Analyzer  *abc.Analyzer
	Cache     cache.PortfolioCache
	Broker    notify.Broker
	Exporter  *export.Exporter
}

type PredictionService struct {
	products  repository.ProductRepository
	sales     repository.SalesRepository
	forecasts repository.ForecastRepository
	runs      pipeline.RunRecorder
	batch     *demand.Batch
	analyzer  *abc.Analyzer
	cache     cache.PortfolioCache
	broker    notify.Broker
	exporter  *export.Exporter
	state     *ModelState
	now       func() time.Time
}

func NewPredictionService(deps PredictionDeps) *PredictionService {
	s := &PredictionService{
		products:  deps.Products,
		sales:     deps.Sales,
		forecasts: deps.Forecasts,
		runs:      deps.Runs,
		batch:     deps.Batch,
		analyzer:  deps.Analyzer,
		cache:     deps.Cache,
		broker:    deps.Broker,
		exporter:  deps.Exporter,
		state:     &ModelState{},
		now:       time.Now,
	}
	if s.batch == nil {
		s.batch = demand.NewBatch(demand.DefaultHorizonDays, 0, nil, log.Logger)
	}
	if s.analyzer == nil {
		s.analyzer = abc.NewAnalyzer(abc.DefaultWindow, log.Logger)
	}
	if s.cache == nil {
		s.cache = cache.NewNoopPortfolioCache()
	}
	if s.exporter == nil {
		s.exporter = export.NewExporter(nil)
	}
	return s
}

func (s *PredictionService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.now().Location())
}

func (s *PredictionService) windowDays() int {
	return int(s.analyzer.Window / (24 * time.Hour))
}

// Generate projects every product over the horizon starting tomorrow and
// replaces all stored forecasts from that date in one transaction.
func (s *PredictionService) Generate(ctx context.Context) ([]domain.DemandForecast, error) {
	var run *pipeline.Run
	if s.runs != nil {
		var err error
		if run, err = s.runs.Start(ctx, s.batch.Days); err != nil {
			log.Warn().Err(err).Msg("predictions: recording run start failed")
		}
	}

	forecasts, productCount, err := s.generate(ctx)
	if run != nil {
		if err != nil {
			if ferr := s.runs.Fail(ctx, run, err); ferr != nil {
				log.Warn().Err(ferr).Msg("predictions: recording run failure failed")
			}
		} else if cerr := s.runs.Complete(ctx, run, productCount, len(forecasts)); cerr != nil {
			log.Warn().Err(cerr).Msg("predictions: recording run completion failed")
		}
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !s.state.Status().IsTrained {
		s.state.MarkTrained(now)
	}
	invalidate(ctx, "predictions", s.cache)
	s.publish(ctx, domain.EventForecastsReady, domain.ForecastsGenerated{Count: len(forecasts), GeneratedAt: now.UTC()})

	log.Info().Int("products", productCount).Int("forecasts", len(forecasts)).Msg("predictions: generated")
	return forecasts, nil
}

func (s *PredictionService) generate(ctx context.Context) ([]domain.DemandForecast, int, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	start := demand.StartDate(s.now())
	forecasts, err := s.batch.Generate(ctx, products, start)
	if err != nil {
		return nil, len(products), fmt.Errorf("generate forecasts: %w", err)
	}
	if err := s.forecasts.ReplaceFrom(ctx, start, forecasts); err != nil {
		return nil, len(products), err
	}
	return forecasts, len(products), nil
}

// ForProduct returns the product's forecasts from today, by date.
func (s *PredictionService) ForProduct(ctx context.Context, productID int64) ([]domain.DemandForecast, error) {
	return s.forecasts.ListForProduct(ctx, productID, s.today())
}

// All returns every stored forecast ordered by product, then date.
func (s *PredictionService) All(ctx context.Context) ([]domain.DemandForecast, error) {
	forecasts, err := s.forecasts.ListBetween(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	sortByProductDate(forecasts)
	return forecasts, nil
}

func (s *PredictionService) ByDateRange(ctx context.Context, start, end time.Time) ([]domain.DemandForecast, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date must not be after end date", domain.ErrInvalidInput)
	}
	return s.forecasts.ListBetween(ctx, &start, &end)
}

// HighConfidence returns upcoming forecasts at or above minConfidence.
func (s *PredictionService) HighConfidence(ctx context.Context, minConfidence float64) ([]domain.DemandForecast, error) {
	if minConfidence < 0 || minConfidence > 1 || math.IsNaN(minConfidence) {
		return nil, fmt.Errorf("%w: confidence must be between 0 and 1", domain.ErrInvalidInput)
	}
	return s.forecasts.ListHighConfidence(ctx, s.today(), minConfidence)
}

// Tier classifies one product over the analysis window.
func (s *PredictionService) Tier(ctx context.Context, productID int64) (*abc.ProductClassification, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	records, err := s.sales.ListForProduct(ctx, productID, now.Add(-s.analyzer.Window))
	if err != nil {
		return nil, err
	}

	summary := s.analyzer.Analyze([]abc.ProductAggregate{toAggregate(*p)}, toSales(records), now)
	pc := summary.Products[0]
	return &pc, nil
}

// Analyze classifies the whole catalogue, served from cache when fresh.
func (s *PredictionService) Analyze(ctx context.Context) (*abc.PortfolioSummary, error) {
	days := s.windowDays()
	if summary, ok, err := s.cache.GetPortfolio(ctx, days); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("predictions: cache get portfolio failed")
	}

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	records, err := s.sales.ListBetween(ctx, now.Add(-s.analyzer.Window), now)
	if err != nil {
		return nil, err
	}

	aggregates := make([]abc.ProductAggregate, len(products))
	for i, p := range products {
		aggregates[i] = toAggregate(p)
	}
	summary := s.analyzer.Analyze(aggregates, toSales(records), now)

	if err := s.cache.SetPortfolio(ctx, days, &summary); err != nil {
		log.Warn().Err(err).Msg("predictions: cache set portfolio failed")
	}
	return &summary, nil
}

// Summary rolls up forecasts dated today or later.
func (s *PredictionService) Summary(ctx context.Context) (*domain.ForecastSummary, error) {
	today := s.today()
	forecasts, err := s.forecasts.ListBetween(ctx, &today, nil)
	if err != nil {
		return nil, err
	}

	summary := &domain.ForecastSummary{
		TotalPredictions:  len(forecasts),
		CategoryBreakdown: []domain.TierBreakdown{},
		TopProducts:       []domain.ProductDemand{},
	}

	type tierAcc struct {
		count      int
		confidence float64
		demand     float64
	}
	tiers := map[domain.Tier]*tierAcc{}
	type productAcc struct {
		domain.ProductDemand
		count int
	}
	byProduct := map[int64]*productAcc{}

	var confidenceSum float64
	for _, f := range forecasts {
		confidenceSum += f.Confidence
		summary.TotalPredictedDemand += f.PredictedDemand
		if f.Confidence >= domain.HighConfidenceThreshold {
			summary.HighConfidencePredictions++
		}

		t, ok := tiers[f.Tier]
		if !ok {
			t = &tierAcc{}
			tiers[f.Tier] = t
		}
		t.count++
		t.confidence += f.Confidence
		t.demand += f.PredictedDemand

		p, ok := byProduct[f.ProductID]
		if !ok {
			p = &productAcc{ProductDemand: domain.ProductDemand{ProductID: f.ProductID, ProductName: f.ProductName, Tier: f.Tier}}
			byProduct[f.ProductID] = p
		}
		p.count++
		p.TotalDemand += f.PredictedDemand
		p.AverageConfidence += f.Confidence
	}
	if len(forecasts) > 0 {
		summary.AverageConfidence = confidenceSum / float64(len(forecasts))
	}

	for _, tier := range domain.Tiers {
		t, ok := tiers[tier]
		if !ok {
			continue
		}
		summary.CategoryBreakdown = append(summary.CategoryBreakdown, domain.TierBreakdown{
			Tier:              tier,
			Count:             t.count,
			AverageConfidence: t.confidence / float64(t.count),
			TotalDemand:       t.demand,
		})
	}

	top := make([]domain.ProductDemand, 0, len(byProduct))
	for _, p := range byProduct {
		p.AverageConfidence /= float64(p.count)
		top = append(top, p.ProductDemand)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalDemand != top[j].TotalDemand {
			return top[i].TotalDemand > top[j].TotalDemand
		}
		return top[i].ProductID < top[j].ProductID
	})
	if len(top) > summaryTopProducts {
		top = top[:summaryTopProducts]
	}
	summary.TopProducts = top

	summary.LastGenerated = s.lastGenerated(ctx)
	return summary, nil
}

func (s *PredictionService) lastGenerated(ctx context.Context) *time.Time {
	if s.runs == nil {
		return nil
	}
	run, err := s.runs.LastCompleted(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("predictions: reading last run failed")
		return nil
	}
	if run == nil {
		return nil
	}
	return run.CompletedAt
}

// Retrain marks the model trained now. Projection has no fitted state.
func (s *PredictionService) Retrain(ctx context.Context) domain.ModelStatus {
	s.state.MarkTrained(s.now().UTC())
	log.Info().Msg("predictions: model retrained")
	return s.state.Status()
}

func (s *PredictionService) Status() domain.ModelStatus {
	return s.state.Status()
}

// Performance compares forecasts dated in the last 30 days with the units
// actually sold on the same product and day.
func (s *PredictionService) Performance(ctx context.Context) (*domain.ModelPerformance, error) {
	today := s.today()
	start := today.AddDate(0, 0, -performanceWindowDays)

	forecasts, err := s.forecasts.ListBetween(ctx, &start, nil)
	if err != nil {
		return nil, err
	}
	actuals, err := s.sales.DailyQuantities(ctx, start, today)
	if err != nil {
		return nil, err
	}

	type key struct {
		product int64
		day     string
	}
	sold := make(map[key]int, len(actuals))
	for _, a := range actuals {
		sold[key{a.ProductID, a.Date.Format(dayLayout)}] += a.Quantity
	}

	perf := &domain.ModelPerformance{
		TotalPredictions: len(forecasts),
		LastTrainingDate: s.state.Status().LastTrained,
	}

	var absErr, actualSum float64
	for _, f := range forecasts {
		if !f.PredictedDate.Before(today) {
			continue
		}
		actual := float64(sold[key{f.ProductID, f.PredictedDate.Format(dayLayout)}])
		absErr += math.Abs(f.PredictedDemand - actual)
		actualSum += actual
		perf.EvaluatedPredictions++
	}

	if perf.EvaluatedPredictions == 0 {
		perf.Message = "No past forecasts to evaluate yet"
		return perf, nil
	}

	perf.MeanAbsoluteError = absErr / float64(perf.EvaluatedPredictions)
	switch {
	case actualSum > 0:
		perf.OverallAccuracy = math.Max(0, 1-absErr/actualSum)
	case absErr == 0:
		perf.OverallAccuracy = 1
	}
	perf.RecommendRetraining = perf.OverallAccuracy < domain.MinimumAcceptableAccuracy
	if perf.RecommendRetraining {
		perf.Message = "Accuracy below acceptable threshold, retraining recommended"
	} else {
		perf.Message = "Model performance is acceptable"
	}
	return perf, nil
}

func (s *PredictionService) ValidateAccuracy(ctx context.Context) (bool, error) {
	perf, err := s.Performance(ctx)
	if err != nil {
		return false, err
	}
	return perf.OverallAccuracy >= domain.MinimumAcceptableAccuracy, nil
}

// SeasonalPatterns returns one entry per calendar month from the product's
// full sales history.
func (s *PredictionService) SeasonalPatterns(ctx context.Context, productID int64) ([]domain.SeasonalPattern, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	records, err := s.sales.ListForProduct(ctx, productID, time.Time{})
	if err != nil {
		return nil, err
	}

	var (
		totals   [13]int
		counts   [13]int
		days     [13]map[string]struct{}
		allUnits int
		allDays  = map[string]struct{}{}
	)
	for _, r := range records {
		m := int(r.Date.Month())
		totals[m] += r.QuantitySold
		counts[m]++
		if days[m] == nil {
			days[m] = map[string]struct{}{}
		}
		day := r.Date.Format(dayLayout)
		days[m][day] = struct{}{}
		allDays[day] = struct{}{}
		allUnits += r.QuantitySold
	}

	overall := 0.0
	if len(allDays) > 0 {
		overall = float64(allUnits) / float64(len(allDays))
	}

	patterns := make([]domain.SeasonalPattern, 0, 12)
	for m := 1; m <= 12; m++ {
		month := time.Month(m)
		p := domain.SeasonalPattern{
			Month:            m,
			MonthName:        month.String(),
			TotalSales:       totals[m],
			SalesCount:       counts[m],
			SeasonalityIndex: 1,
			SeasonalFactor:   demand.SeasonalFactor(time.Date(2000, month, 1, 0, 0, 0, 0, time.UTC)),
		}
		if n := len(days[m]); n > 0 {
			p.AverageDailySales = float64(totals[m]) / float64(n)
		}
		if overall > 0 {
			p.SeasonalityIndex = p.AverageDailySales / overall
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Export renders upcoming forecasts as CSV, generating them first when none
// are stored.
func (s *PredictionService) Export(ctx context.Context) (*export.Result, error) {
	today := s.today()
	forecasts, err := s.forecasts.ListBetween(ctx, &today, nil)
	if err != nil {
		return nil, err
	}
	if len(forecasts) == 0 {
		if forecasts, err = s.Generate(ctx); err != nil {
			return nil, err
		}
	}
	sortByProductDate(forecasts)
	return s.exporter.Export(ctx, forecasts)
}

func (s *PredictionService) publish(ctx context.Context, eventType string, payload any) {
	if s.broker == nil {
		return
	}
	event, err := notify.NewEvent(eventType, payload)
	if err == nil {
		err = s.broker.Publish(ctx, event)
	}
	if err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("predictions: publish event failed")
	}
}

const dayLayout = "2006-01-02"

func sortByProductDate(forecasts []domain.DemandForecast) {
	sort.SliceStable(forecasts, func(i, j int) bool {
		if forecasts[i].ProductID != forecasts[j].ProductID {
			return forecasts[i].ProductID < forecasts[j].ProductID
		}
		return forecasts[i].PredictedDate.Before(forecasts[j].PredictedDate)
	})
}

func toAggregate(p domain.Product) abc.ProductAggregate {
	return abc.ProductAggregate{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Category:     p.Category,
		UnitPrice:    p.UnitPrice,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
	}
}

func toSales(records []domain.SalesRecord) []abc.Sale {
	sales := make([]abc.Sale, len(records))
	for i, r := range records {
		sales[i] = abc.Sale{ProductID: r.ProductID, Date: r.Date, Quantity: r.QuantitySold, UnitPrice: r.UnitPrice}
	}
	return sales
}
