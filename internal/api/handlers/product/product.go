package product

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bagitup-api/internal/api/handlers"
	"bagitup-api/internal/core/product"
	"bagitup-api/internal/pkg/common"
)

// Handler 商品目錄的 HTTP 處理器
type Handler struct {
	products *product.Service
}

// NewHandler 建立商品處理器
func NewHandler(products *product.Service) *Handler {
	return &Handler{products: products}
}

// List 依條件列出商品
func (h *Handler) List(c *gin.Context) {
	opts := &product.ListOptions{
		Category: common.Category(c.Query("category")),
		Search:   c.Query("search"),
	}

	if raw := c.Query("in_stock"); raw != "" {
		inStock := raw == "true"
		opts.InStock = &inStock
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.ParseInt(raw, 10, 64); err == nil && limit > 0 {
			opts.Limit = limit
		}
	}
	if raw := c.Query("skip"); raw != "" {
		if skip, err := strconv.ParseInt(raw, 10, 64); err == nil && skip > 0 {
			opts.Skip = skip
		}
	}

	products, err := h.products.List(c.Request.Context(), opts)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// Featured 取得精選商品
func (h *Handler) Featured(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.ParseInt(raw, 10, 64)
	}

	products, err := h.products.Featured(c.Request.Context(), limit)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// Categories 列出所有商品分類
func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": common.Categories})
}

// Get 取得單一商品
func (h *Handler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		handlers.Error(c, common.ErrProductNotFound)
		return
	}

	found, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": found})
}
