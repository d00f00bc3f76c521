package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"bagitup-api/internal/infrastructure/config"
	"bagitup-api/internal/pkg/common"
)

// ContextUserID 驗證通過後存放在 gin context 的使用者識別鍵
const ContextUserID = "user_id"

// Auth 驗證 Bearer token 並把 user_id 放進 context。
// auth 未啟用時改從 X-User-ID 標頭取使用者（缺省為 anonymous），
// 方便本地開發與測試
func Auth(cfg *config.AuthConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			userID := c.GetHeader("X-User-ID")
			if userID == "" {
				userID = "anonymous"
			}
			c.Set(ContextUserID, userID)
			c.Next()
		}
	}

	secret := []byte(cfg.JWTSecret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing bearer token",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			common.LogWarn("Token 驗證失敗",
				zap.String("ip", c.ClientIP()),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token claims",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		userID, _ := claims["sub"].(string)
		if userID == "" {
			userID, _ = claims["user_id"].(string)
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Token missing subject",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID 從 gin context 取出已驗證的使用者識別
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
