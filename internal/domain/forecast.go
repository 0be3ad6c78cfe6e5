package domain

import "time"

// DemandForecast is the projected demand of one product on one day.
type DemandForecast struct {
	ID              int64     `json:"id" db:"id"`
	ProductID       int64     `json:"product_id" db:"product_id"`
	ProductName     string    `json:"product_name,omitempty" db:"product_name"`
	PredictedDate   time.Time `json:"predicted_date" db:"predicted_date"`
	PredictedDemand float64   `json:"predicted_demand" db:"predicted_demand"`
	Confidence      float64   `json:"confidence" db:"confidence"`
	Tier            Tier      `json:"abc_category" db:"abc_category"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

const HighConfidenceThreshold = 0.8

type TierBreakdown struct {
	Tier              Tier    `json:"category"`
	Count             int     `json:"count"`
	AverageConfidence float64 `json:"average_confidence"`
	TotalDemand       float64 `json:"total_demand"`
}

type ProductDemand struct {
	ProductID         int64   `json:"product_id"`
	ProductName       string  `json:"product_name"`
	TotalDemand       float64 `json:"total_demand"`
	AverageConfidence float64 `json:"average_confidence"`
	Tier              Tier    `json:"abc_category"`
}

// ForecastSummary rolls up forecasts dated today or later.
type ForecastSummary struct {
	TotalPredictions          int             `json:"total_predictions"`
	HighConfidencePredictions int             `json:"high_confidence_predictions"`
	AverageConfidence         float64         `json:"average_confidence"`
	TotalPredictedDemand      float64         `json:"total_predicted_demand"`
	CategoryBreakdown         []TierBreakdown `json:"category_breakdown"`
	TopProducts               []ProductDemand `json:"top_products"`
	LastGenerated             *time.Time      `json:"last_generated,omitempty"`
}

type ModelStatus struct {
	IsTrained   bool       `json:"is_trained"`
	LastTrained *time.Time `json:"last_trained,omitempty"`
}

type ModelPerformance struct {
	OverallAccuracy      float64    `json:"overall_accuracy"`
	MeanAbsoluteError    float64    `json:"mean_absolute_error"`
	EvaluatedPredictions int        `json:"evaluated_predictions"`
	TotalPredictions     int        `json:"total_predictions"`
	LastTrainingDate     *time.Time `json:"last_training_date,omitempty"`
	RecommendRetraining  bool       `json:"recommend_retraining"`
	Message              string     `json:"message"`
}

const MinimumAcceptableAccuracy = 0.7

type SeasonalPattern struct {
	Month             int     `json:"month"`
	MonthName         string  `json:"month_name"`
	AverageDailySales float64 `json:"average_daily_sales"`
	TotalSales        int     `json:"total_sales"`
	SalesCount        int     `json:"sales_count"`
	// SeasonalityIndex is the month's average daily sales over the
	// product's overall average; 1 without history.
	SeasonalityIndex float64 `json:"seasonality_index"`
	SeasonalFactor   float64 `json:"seasonal_factor"`
}
