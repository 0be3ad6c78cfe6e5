package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const streamKeepAlive = 15 * time.Second

type UpdateStockRequest struct {
	NewStock *int   `json:"new_stock" binding:"required"`
	Reason   string `json:"reason"`
}

type AdjustStockRequest struct {
	Adjustment int    `json:"adjustment"`
	Reason     string `json:"reason"`
}

type MinimumStockRequest struct {
	MinimumStock *int `json:"minimum_stock" binding:"required"`
}

type InventoryHandler struct {
	inventory *service.InventoryService
}

func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

func (h *InventoryHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.inventory.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	products, err := h.inventory.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch low stock products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid stock payload", err)
		return
	}
	product, err := h.inventory.UpdateStock(c.Request.Context(), id, *req.NewStock, req.Reason)
	if err != nil {
		respondError(c, err, "failed to update stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully", "product": product})
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid adjustment payload", err)
		return
	}
	product, err := h.inventory.AdjustStock(c.Request.Context(), id, req.Adjustment, req.Reason)
	if err != nil {
		respondError(c, err, "failed to adjust stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock adjusted successfully", "product": product})
}

func (h *InventoryHandler) SetMinimumStock(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req MinimumStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid minimum stock payload", err)
		return
	}
	product, err := h.inventory.SetMinimumStock(c.Request.Context(), id, *req.MinimumStock)
	if err != nil {
		respondError(c, err, "failed to set minimum stock")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	days := parsePositiveIntWithDefault(c.Query("days"), 30)
	movements, err := h.inventory.Movements(c.Request.Context(), id, days)
	if err != nil {
		respondError(c, err, "failed to fetch stock movements")
		return
	}
	c.JSON(http.StatusOK, movements)
}

func (h *InventoryHandler) Report(c *gin.Context) {
	start, err := queryDate(c, "start_date")
	if err != nil {
		respondError(c, err, "invalid report period")
		return
	}
	end, err := queryDate(c, "end_date")
	if err != nil {
		respondError(c, err, "invalid report period")
		return
	}
	report, err := h.inventory.Report(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err, "failed to build inventory report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// Stream relays inventory events as server-sent events until the client
// goes away.
func (h *InventoryHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	events, cancel, err := h.inventory.Subscribe(ctx)
	if err != nil {
		respondError(c, err, "failed to subscribe to inventory events")
		return
	}
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("connected", gin.H{"time": time.Now().UTC()})
	c.Writer.Flush()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	sent := 0
	c.Stream(func(io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event)
			sent++
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", strconv.FormatInt(t.Unix(), 10))
			return true
		case <-ctx.Done():
			return false
		}
	})
	log.Debug().Int("events", sent).Msg("inventory: stream closed")
}
