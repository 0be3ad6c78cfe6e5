package abc

import (
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductClassification is a classified product with the figures behind it.
type ProductClassification struct {
	ProductAggregate
	SalesAggregate
	Score  float64     `json:"score"`
	Tier   domain.Tier `json:"abc_category"`
	Scores Scores      `json:"scores"`
	// Defaulted is set when scoring failed and the product fell back to C.
	Defaulted bool `json:"defaulted,omitempty"`
}

// PortfolioSummary is the tier roll-up of one analysis run.
type PortfolioSummary struct {
	AnalysisDate  time.Time               `json:"analysis_date"`
	PeriodStart   time.Time               `json:"analysis_period_start"`
	PeriodEnd     time.Time               `json:"analysis_period_end"`
	TotalProducts int                     `json:"total_products"`
	ACount        int                     `json:"category_a_count"`
	BCount        int                     `json:"category_b_count"`
	CCount        int                     `json:"category_c_count"`
	ARevenue      decimal.Decimal         `json:"category_a_revenue"`
	BRevenue      decimal.Decimal         `json:"category_b_revenue"`
	CRevenue      decimal.Decimal         `json:"category_c_revenue"`
	Products      []ProductClassification `json:"product_analyses"`
}

// Count returns the number of products in tier.
func (s PortfolioSummary) Count(tier domain.Tier) int {
	switch tier {
	case domain.TierA:
		return s.ACount
	case domain.TierB:
		return s.BCount
	default:
		return s.CCount
	}
}

// Find returns the classification of productID, if present.
func (s PortfolioSummary) Find(productID int64) (ProductClassification, bool) {
	for _, p := range s.Products {
		if p.ID == productID {
			return p, true
		}
	}
	return ProductClassification{}, false
}

// Analyzer classifies a whole portfolio over a trailing window.
type Analyzer struct {
	Classifier Classifier
	Window     time.Duration
	Logger     zerolog.Logger
}

func NewAnalyzer(window time.Duration, logger zerolog.Logger) *Analyzer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Analyzer{
		Classifier: NewClassifier(),
		Window:     window,
		Logger:     logger,
	}
}

// Analyze classifies every product against the sales dated in the window
// ending at now. A product that fails to score is logged and counted as C.
func (a *Analyzer) Analyze(products []ProductAggregate, sales []Sale, now time.Time) PortfolioSummary {
	start := now.Add(-a.Window)
	summary := PortfolioSummary{
		AnalysisDate:  now,
		PeriodStart:   start,
		PeriodEnd:     now,
		TotalProducts: len(products),
		Products:      make([]ProductClassification, 0, len(products)),
	}

	byProduct := make(map[int64][]Sale, len(products))
	for _, s := range sales {
		byProduct[s.ProductID] = append(byProduct[s.ProductID], s)
	}

	for _, p := range products {
		pc := a.classify(p, byProduct[p.ID], start, now)
		summary.add(pc)
	}

	return summary
}

func (a *Analyzer) classify(p ProductAggregate, sales []Sale, start, now time.Time) ProductClassification {
	agg := Aggregate(sales, start, now)
	pc := ProductClassification{ProductAggregate: p, SalesAggregate: agg}

	result, err := a.Classifier.Classify(p, agg)
	if err != nil {
		a.Logger.Warn().
			Err(err).
			Int64("product_id", p.ID).
			Str("sku", p.SKU).
			Msg("abc: classification failed, defaulting to C")
		pc.Tier = domain.TierC
		pc.Defaulted = true
		return pc
	}

	pc.Score = result.Score
	pc.Tier = result.Tier
	pc.Scores = result.Scores
	return pc
}

func (s *PortfolioSummary) add(pc ProductClassification) {
	switch pc.Tier {
	case domain.TierA:
		s.ACount++
		s.ARevenue = s.ARevenue.Add(pc.Revenue)
	case domain.TierB:
		s.BCount++
		s.BRevenue = s.BRevenue.Add(pc.Revenue)
	default:
		s.CCount++
		s.CRevenue = s.CRevenue.Add(pc.Revenue)
	}
	s.Products = append(s.Products, pc)
}
