package api

import (
	"context"
	"net/http"
	"time"

	"bagitup-api/internal/api/handlers/health"
	itemHandler "bagitup-api/internal/api/handlers/item"
	productHandler "bagitup-api/internal/api/handlers/product"
	recommendationHandler "bagitup-api/internal/api/handlers/recommendation"
	tripHandler "bagitup-api/internal/api/handlers/trip"
	"bagitup-api/internal/api/middleware"
	"bagitup-api/internal/core/ai/cache"
	itemService "bagitup-api/internal/core/item"
	productService "bagitup-api/internal/core/product"
	recommendationService "bagitup-api/internal/core/recommendation"
	tripService "bagitup-api/internal/core/trip"
	"bagitup-api/internal/infrastructure/config"
	"bagitup-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 60 * time.Second
	// 請求體大小限制 (1MB)，純 JSON API 不需要更大
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, db *mongo.Database, resultCache *cache.Service, generator recommendationService.Generator) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 初始化服務
	trips := tripService.NewService(db)
	items := itemService.NewService(db)
	products := productService.NewService(db)
	recommendations := recommendationService.NewService(
		trips,
		recommendationService.NewMongoStore(db),
		recommendationService.NewMatcher(products),
		generator,
		resultCache,
		cfg.AI.RecommendationTTL,
	)

	common.LogInfo("Services initialized",
		zap.Bool("cache_available", resultCache.Available()),
		zap.Duration("recommendation_ttl", cfg.AI.RecommendationTTL),
		zap.Duration("timeout", timeoutDuration),
	)

	// 全局中間件：請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
		}
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, db, recommendations.Status)
	router.GET("/health", healthHandler.Check)
	router.GET("/ready", healthHandler.Readiness)
	router.GET("/live", healthHandler.Liveness)

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(&cfg.Auth))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.Deduplication(cfg))
	{
		trip := tripHandler.NewHandler(trips)
		tripGroup := api.Group("/trips")
		{
			tripGroup.POST("", trip.Create)
			tripGroup.GET("", trip.List)
			tripGroup.GET("/:tripId", trip.Get)
			tripGroup.PUT("/:tripId", trip.Update)
			tripGroup.DELETE("/:tripId", trip.Delete)
		}

		item := itemHandler.NewHandler(items)
		itemGroup := api.Group("/items")
		{
			itemGroup.POST("", item.Create)
			itemGroup.GET("", item.List)
			itemGroup.GET("/:itemId", item.Get)
			itemGroup.PUT("/:itemId", item.Update)
			itemGroup.DELETE("/:itemId", item.Delete)
		}

		product := productHandler.NewHandler(products)
		productGroup := api.Group("/products")
		{
			productGroup.GET("", product.List)
			productGroup.GET("/featured", product.Featured)
			productGroup.GET("/categories", product.Categories)
			productGroup.GET("/:productId", product.Get)
		}

		rec := recommendationHandler.NewHandler(recommendations)
		recGroup := api.Group("/recommendations")
		{
			recGroup.GET("/status", rec.Status)
			recGroup.POST("", rec.Generate)
			recGroup.GET("", rec.List)
			recGroup.GET("/trip/:tripId", rec.GetByTrip)
			recGroup.DELETE("/trip/:tripId", rec.DeleteByTrip)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("auth_enabled", cfg.Auth.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
