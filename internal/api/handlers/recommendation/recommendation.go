package recommendation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bagitup-api/internal/api/handlers"
	"bagitup-api/internal/api/middleware"
	"bagitup-api/internal/core/recommendation"
	"bagitup-api/internal/pkg/common"
)

// GenerateRequest 產生推薦的請求
type GenerateRequest struct {
	TripID string `json:"trip_id" binding:"required"`
}

// Handler 推薦相關的 HTTP 處理器
type Handler struct {
	recommendations *recommendation.Service
}

// NewHandler 建立推薦處理器
func NewHandler(recommendations *recommendation.Service) *Handler {
	return &Handler{recommendations: recommendations}
}

// Generate 為行程取得或產生推薦
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "trip_id is required",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	tripID, err := primitive.ObjectIDFromHex(req.TripID)
	if err != nil {
		handlers.Error(c, common.ErrTripNotFound)
		return
	}

	userID := middleware.UserID(c)
	result, err := h.recommendations.GetOrCreate(c.Request.Context(), tripID, userID)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	common.LogInfo("推薦請求完成",
		zap.String("trip_id", req.TripID),
		zap.Bool("from_cache", result.FromCache()))

	c.JSON(http.StatusOK, gin.H{
		"recommendation":  result.Recommendation,
		"from_cache":      result.FromCache(),
		"unmatched_items": result.Unmatched,
	})
}

// List 列出使用者的所有推薦紀錄
func (h *Handler) List(c *gin.Context) {
	recs, err := h.recommendations.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// GetByTrip 取得指定行程的推薦紀錄
func (h *Handler) GetByTrip(c *gin.Context) {
	tripID, err := primitive.ObjectIDFromHex(c.Param("tripId"))
	if err != nil {
		handlers.Error(c, common.ErrTripNotFound)
		return
	}

	result, err := h.recommendations.GetOrCreate(c.Request.Context(), tripID, middleware.UserID(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendation":  result.Recommendation,
		"from_cache":      result.FromCache(),
		"unmatched_items": result.Unmatched,
	})
}

// DeleteByTrip 刪除指定行程的推薦紀錄
func (h *Handler) DeleteByTrip(c *gin.Context) {
	tripID, err := primitive.ObjectIDFromHex(c.Param("tripId"))
	if err != nil {
		handlers.Error(c, common.ErrTripNotFound)
		return
	}

	deleted, err := h.recommendations.Delete(c.Request.Context(), tripID, middleware.UserID(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recommendations deleted",
		"deleted": deleted,
	})
}

// Status 回報 AI 供應商與快取的可用狀態
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.recommendations.Status())
}
