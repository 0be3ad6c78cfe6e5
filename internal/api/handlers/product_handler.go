package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products  *service.ProductService
	inventory *service.InventoryService
}

func NewProductHandler(products *service.ProductService, inventory *service.InventoryService) *ProductHandler {
	return &ProductHandler{products: products, inventory: inventory}
}

func (h *ProductHandler) parseFilter(c *gin.Context) domain.ProductFilter {
	filter := domain.ProductFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Page:     parsePositiveIntWithDefault(c.Query("page"), 1),
		PageSize: parsePositiveIntWithDefault(c.Query("page_size"), domain.DefaultPageSize),
	}
	if low, err := strconv.ParseBool(c.DefaultQuery("low_stock", "false")); err == nil {
		filter.LowStockOnly = low
	}
	return filter
}

// List returns one page of products; the unpaged total goes in X-Total-Count.
func (h *ProductHandler) List(c *gin.Context) {
	products, total, err := h.products.List(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		respondError(c, err, "failed to fetch products")
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(total))
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid product payload", err)
		return
	}
	product, err := h.products.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "failed to create product")
		return
	}
	c.Header("Location", "/api/v1/products/"+strconv.FormatInt(product.ID, 10))
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid product payload", err)
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// UpdateStock is the product-scoped alias of the inventory endpoint.
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id, ok := pathID(c, "id")
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
	c.JSON(http.StatusOK, product)
}
