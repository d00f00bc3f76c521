package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bagitup-api/internal/api"
	"bagitup-api/internal/core/ai"
	"bagitup-api/internal/core/ai/cache"
	"bagitup-api/internal/core/ai/provider"
	"bagitup-api/internal/infrastructure/config"
	"bagitup-api/internal/infrastructure/database"
	"bagitup-api/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// buildChain 依設定組出供應商鏈。mock 只在明確開啟時使用，
// 沒有任何金鑰時鏈為空，對應的請求會得到明確的未配置錯誤
func buildChain(cfg *config.Config) *ai.Chain {
	if cfg.AI.UseMock {
		common.LogWarn("使用 mock AI 供應商，回應為固定內容")
		return ai.NewChain(cfg.AI.RateLimit, cfg.AI.RateBurst, provider.NewMock())
	}

	var providers []provider.Provider
	if cfg.Groq.APIKey != "" {
		providers = append(providers, provider.NewGroq(provider.Config{
			APIKey:    cfg.Groq.APIKey,
			Model:     cfg.Groq.Model,
			MaxTokens: cfg.Groq.MaxTokens,
			Timeout:   cfg.Groq.Timeout,
		}))
	}
	if cfg.Gemini.APIKey != "" {
		providers = append(providers, provider.NewGemini(provider.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			Timeout: cfg.Gemini.Timeout,
		}))
	}

	return ai.NewChain(cfg.AI.RateLimit, cfg.AI.RateBurst, providers...)
}

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("env", cfg.App.Env),
		zap.String("mongo_database", cfg.Mongo.Database),
		zap.Bool("use_mock", cfg.AI.UseMock),
		zap.Bool("cache_configured", cfg.Cache.Addr != ""),
	)

	// 連接資料庫
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.Connect(ctx, &cfg.Mongo)
	cancel()
	if err != nil {
		common.LogFatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// 初始化共享回應快取，未配置時為 no-op
	resultCache := cache.NewService(&cfg.Cache)
	defer resultCache.Close()

	// 組裝供應商鏈
	chain := buildChain(cfg)

	// 設置路由
	router, err := api.SetupRouter(cfg, db, resultCache, chain)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
	}

	database.Disconnect(shutdownCtx, db)

	common.LogInfo("Server exited")
}
