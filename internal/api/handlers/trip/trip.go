package trip

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bagitup-api/internal/api/handlers"
	"bagitup-api/internal/api/middleware"
	"bagitup-api/internal/core/trip"
	"bagitup-api/internal/pkg/common"
)

// Handler 行程相關的 HTTP 處理器
type Handler struct {
	trips *trip.Service
}

// NewHandler 建立行程處理器
func NewHandler(trips *trip.Service) *Handler {
	return &Handler{trips: trips}
}

// parseTripID 路徑參數轉 ObjectID，格式不對直接視為不存在
func parseTripID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("tripId"))
	if err != nil {
		handlers.Error(c, common.ErrTripNotFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

// Create 建立行程
func (h *Handler) Create(c *gin.Context) {
	var input trip.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.LogWarn("行程請求解析失敗", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	created, err := h.trips.Create(c.Request.Context(), middleware.UserID(c), &input)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trip": created})
}

// List 列出使用者的行程，可用 status 查詢參數過濾
func (h *Handler) List(c *gin.Context) {
	status := common.TripStatus(c.Query("status"))

	trips, err := h.trips.List(c.Request.Context(), middleware.UserID(c), status)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// Get 取得單一行程
func (h *Handler) Get(c *gin.Context) {
	tripID, ok := parseTripID(c)
	if !ok {
		return
	}

	found, err := h.trips.FindByID(c.Request.Context(), tripID, middleware.UserID(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": found})
}

// Update 部分更新行程
func (h *Handler) Update(c *gin.Context) {
	tripID, ok := parseTripID(c)
	if !ok {
		return
	}

	var input trip.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	updated, err := h.trips.Update(c.Request.Context(), tripID, middleware.UserID(c), &input)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": updated})
}

// Delete 刪除行程
func (h *Handler) Delete(c *gin.Context) {
	tripID, ok := parseTripID(c)
	if !ok {
		return
	}

	if err := h.trips.Delete(c.Request.Context(), tripID, middleware.UserID(c)); err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}
