package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bagitup-api/internal/core/ai"
	"bagitup-api/internal/pkg/common"
)

// Error 把服務層錯誤轉成一致的 HTTP 回應。
// not-found 類 sentinel 對應 404，驗證錯誤對應 400，
// 供應商全數失敗或未配置對應 503，其餘走 CustomError 或 500
func Error(c *gin.Context, err error) {
	requestID := requestid.Get(c)

	switch {
	case common.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      err.Error(),
			"code":       common.ErrCodeInvalidRequest,
			"request_id": requestID,
		})
		return

	case errors.Is(err, common.ErrTripNotFound),
		errors.Is(err, common.ErrRecommendationNotFound),
		errors.Is(err, common.ErrProductNotFound),
		errors.Is(err, common.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":      err.Error(),
			"code":       common.ErrCodeNotFound,
			"request_id": requestID,
		})
		return

	case errors.Is(err, common.ErrNoProviderConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":      "No AI provider configured",
			"code":       common.ErrCodeServiceUnavailable,
			"request_id": requestID,
		})
		return
	}

	var exhaustion *ai.ExhaustionError
	if errors.As(err, &exhaustion) {
		common.LogError("所有 AI 供應商皆失敗",
			zap.String("request_id", requestID),
			zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":      "All AI providers failed",
			"code":       common.ErrCodeServiceUnavailable,
			"request_id": requestID,
		})
		return
	}

	var custom *common.CustomError
	if errors.As(err, &custom) {
		c.JSON(custom.Status, gin.H{
			"error":      custom.Message,
			"code":       custom.Code,
			"request_id": requestID,
		})
		return
	}

	common.LogError("未預期的處理錯誤",
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      "Internal server error",
		"code":       common.ErrCodeInternalError,
		"request_id": requestID,
	})
}
