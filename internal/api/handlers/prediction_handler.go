package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/export"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type PredictionHandler struct {
	predictions *service.PredictionService
}

func NewPredictionHandler(predictions *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictions: predictions}
}

func (h *PredictionHandler) Generate(c *gin.Context) {
	forecasts, err := h.predictions.Generate(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to generate predictions")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Predictions generated successfully",
		"count":       len(forecasts),
		"predictions": forecasts,
	})
}

func (h *PredictionHandler) List(c *gin.Context) {
	forecasts, err := h.predictions.All(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch predictions")
		return
	}
	c.JSON(http.StatusOK, forecasts)
}

func (h *PredictionHandler) ForProduct(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	forecasts, err := h.predictions.ForProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch product predictions")
		return
	}
	c.JSON(http.StatusOK, forecasts)
}

func (h *PredictionHandler) Export(c *gin.Context) {
	res, err := h.predictions.Export(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to export predictions")
		return
	}
	if res.Key != "" {
		c.Header("X-Export-Key", res.Key)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	c.Data(http.StatusOK, export.ContentType, res.Data)
}

func (h *PredictionHandler) Summary(c *gin.Context) {
	summary, err := h.predictions.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to build prediction summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *PredictionHandler) Range(c *gin.Context) {
	start, err := queryDate(c, "start_date")
	if err != nil {
		respondError(c, err, "invalid date range")
		return
	}
	end, err := queryDate(c, "end_date")
	if err != nil {
		respondError(c, err, "invalid date range")
		return
	}
	if start == nil || end == nil {
		badRequest(c, "start_date and end_date are required", nil)
		return
	}

	forecasts, err := h.predictions.ByDateRange(c.Request.Context(), *start, *end)
	if err != nil {
		respondError(c, err, "failed to fetch predictions")
		return
	}
	c.JSON(http.StatusOK, forecasts)
}

func (h *PredictionHandler) HighConfidence(c *gin.Context) {
	minConfidence := domain.HighConfidenceThreshold
	if raw := c.Query("min_confidence"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, "invalid min_confidence", err)
			return
		}
		minConfidence = v
	}

	forecasts, err := h.predictions.HighConfidence(c.Request.Context(), minConfidence)
	if err != nil {
		respondError(c, err, "failed to fetch high confidence predictions")
		return
	}
	c.JSON(http.StatusOK, forecasts)
}

func (h *PredictionHandler) Portfolio(c *gin.Context) {
	summary, err := h.predictions.Analyze(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to analyze portfolio")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *PredictionHandler) ProductTier(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	classification, err := h.predictions.Tier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to classify product")
		return
	}
	c.JSON(http.StatusOK, classification)
}

func (h *PredictionHandler) Retrain(c *gin.Context) {
	status := h.predictions.Retrain(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Model retrained successfully", "status": status})
}

func (h *PredictionHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.predictions.Status())
}

func (h *PredictionHandler) Performance(c *gin.Context) {
	perf, err := h.predictions.Performance(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to evaluate model performance")
		return
	}
	c.JSON(http.StatusOK, perf)
}

func (h *PredictionHandler) SeasonalPatterns(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	patterns, err := h.predictions.SeasonalPatterns(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch seasonal patterns")
		return
	}
	c.JSON(http.StatusOK, patterns)
}
