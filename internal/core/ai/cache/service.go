package cache

import (
	"context"
	"time"

	"bagitup-api/internal/infrastructure/config"
	"bagitup-api/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Service 遠端結果快取（Redis 相容）。所有操作都是 best-effort：
// 讀取失敗視為未命中、寫入失敗直接吞掉，快取掛掉不能拖垮請求。
// 未配置位址時所有操作都是 no-op，這是合法的運行模式。
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService 創建快取服務。連不上 Redis 只會降級，不會失敗。
func NewService(cfg *config.CacheConfig) *Service {
	if cfg.Addr == "" {
		common.LogInfo("結果快取未配置，進入 no-op 模式")
		return &Service{config: cfg}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接：失敗只警告，之後的操作各自 best-effort
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		common.LogWarn("Redis 連線測試失敗，快取將以 best-effort 運作",
			zap.String("addr", cfg.Addr),
			zap.Error(err),
		)
	}

	return &Service{
		client: client,
		config: cfg,
	}
}

// Available 快取是否已配置，供 status 端點回報
func (s *Service) Available() bool {
	return s.client != nil
}

// Get 獲取快取。任何錯誤（含未配置）都當作未命中。
func (s *Service) Get(ctx context.Context, key string) (string, bool) {
	if s.client == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("Redis 讀取失敗，視為未命中",
				zap.String("鍵", key),
				zap.Error(err),
			)
		}
		common.LogCacheMiss("redis", key)
		return "", false
	}

	common.LogCacheHit("redis", key)
	return data, true
}

// Set 設置快取。錯誤只記錄，不回傳。ttl <= 0 時使用設定檔的預設 TTL。
func (s *Service) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if s.client == nil {
		return
	}
	if ttl <= 0 {
		ttl = s.config.TTL
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		common.LogWarn("Redis 寫入失敗",
			zap.String("鍵", key),
			zap.Error(err),
		)
		return
	}

	common.LogInfo("快取已儲存",
		zap.String("鍵", key),
		zap.Duration("ttl", ttl),
	)
}

// Close 關閉快取連線
func (s *Service) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
