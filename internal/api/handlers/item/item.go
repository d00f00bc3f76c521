package item

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bagitup-api/internal/api/handlers"
	"bagitup-api/internal/api/middleware"
	"bagitup-api/internal/core/item"
	"bagitup-api/internal/pkg/common"
)

// Handler 個人物品相關的 HTTP 處理器
type Handler struct {
	items *item.Service
}

// NewHandler 建立物品處理器
func NewHandler(items *item.Service) *Handler {
	return &Handler{items: items}
}

// parseItemID 路徑參數轉 ObjectID，格式不對直接視為不存在
func parseItemID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		handlers.Error(c, common.ErrItemNotFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

// intQuery 取整數查詢參數，解析失敗回傳 0 交給服務層補預設值
func intQuery(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// Create 建立物品
func (h *Handler) Create(c *gin.Context) {
	var input item.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.LogWarn("物品請求解析失敗", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	created, err := h.items.Create(c.Request.Context(), middleware.UserID(c), &input)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": created})
}

// List 分頁列出物品，可用 category、status、page、limit 查詢參數
func (h *Handler) List(c *gin.Context) {
	opts := item.ListOptions{
		Category: c.Query("category"),
		Status:   common.ItemStatus(c.Query("status")),
		Page:     intQuery(c, "page"),
		Limit:    intQuery(c, "limit"),
	}

	items, pagination, err := h.items.List(c.Request.Context(), middleware.UserID(c), opts)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": pagination,
	})
}

// Get 取得單一物品
func (h *Handler) Get(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	found, err := h.items.FindByID(c.Request.Context(), itemID, middleware.UserID(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": found})
}

// Update 部分更新物品
func (h *Handler) Update(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	var input item.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	updated, err := h.items.Update(c.Request.Context(), itemID, middleware.UserID(c), &input)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": updated})
}

// Delete 軟刪除物品
func (h *Handler) Delete(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	deleted, err := h.items.Delete(c.Request.Context(), itemID, middleware.UserID(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item deleted",
		"item":    deleted,
	})
}
