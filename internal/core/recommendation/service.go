package recommendation

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bagitup-api/internal/core/ai/cache"
	"bagitup-api/internal/core/ai/provider"
	"bagitup-api/internal/pkg/common"
)

// Source 標記本次結果的來源，對外只分成 from_cache 與否
type Source string

const (
	// SourceRecord 自己的持久化紀錄仍在效期內
	SourceRecord Source = "record"
	// SourceSharedCache 共享快取命中，略過 AI 呼叫
	SourceSharedCache Source = "shared-cache"
	// SourceGenerated 實際呼叫 AI 產生
	SourceGenerated Source = "generated"
)

// TripFinder 行程查詢介面，由 trip 套件提供
type TripFinder interface {
	FindByID(ctx context.Context, tripID primitive.ObjectID, userID string) (*common.Trip, error)
	AttachRecommendation(ctx context.Context, tripID primitive.ObjectID, userID string, recID primitive.ObjectID) error
	ClearRecommendations(ctx context.Context, tripID primitive.ObjectID, userID string) error
}

// Store 推薦紀錄持久層介面
type Store interface {
	FindOne(ctx context.Context, tripID primitive.ObjectID, userID string) (*common.Recommendation, error)
	FindByUser(ctx context.Context, userID string) ([]common.Recommendation, error)
	Upsert(ctx context.Context, rec *common.Recommendation) (*common.Recommendation, error)
	DeleteMany(ctx context.Context, tripID primitive.ObjectID, userID string) (int64, error)
}

// Generator AI 文字產生介面，由 ai.Chain 提供
type Generator interface {
	Generate(ctx context.Context, req *provider.Request) (string, error)
	Status() map[string]bool
}

// ResultCache 跨使用者共享的回應快取介面
type ResultCache interface {
	Available() bool
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// Result 一次取得或產生推薦的完整結果
type Result struct {
	Recommendation *common.Recommendation
	Unmatched      []common.RecommendedItem
	Source         Source
}

// FromCache 呼叫端只需要知道有沒有省掉 AI 呼叫
func (r *Result) FromCache() bool {
	return r.Source != SourceGenerated
}

// Service 推薦產生流程的協調者
type Service struct {
	trips     TripFinder
	store     Store
	matcher   *Matcher
	generator Generator
	results   ResultCache
	ttl       time.Duration
}

// NewService 建立推薦服務，ttl 為持久化紀錄的有效期
func NewService(trips TripFinder, store Store, matcher *Matcher, generator Generator, results ResultCache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{
		trips:     trips,
		store:     store,
		matcher:   matcher,
		generator: generator,
		results:   results,
		ttl:       ttl,
	}
}

// GetOrCreate 取得行程的推薦，必要時才呼叫 AI。
// 流程：有效的既有紀錄直接回用；否則先查共享快取，未命中才走
// 供應商鏈產生，再正規化、配對商品並覆寫持久紀錄。
func (s *Service) GetOrCreate(ctx context.Context, tripID primitive.ObjectID, userID string) (*Result, error) {
	trip, err := s.trips.FindByID(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindOne(ctx, tripID, userID)
	if err != nil && !errors.Is(err, common.ErrRecommendationNotFound) {
		return nil, err
	}
	if existing != nil && existing.Usable(time.Now()) {
		common.LogInfo("回用既有推薦紀錄",
			zap.String("trip_id", tripID.Hex()),
			zap.Time("expires_at", existing.ExpiresAt))
		return &Result{Recommendation: existing, Source: SourceRecord}, nil
	}

	attrs := trip.Attributes()
	key := cache.BuildKey(attrs)
	prompt := BuildPrompt(attrs)

	raw, hit := s.results.Get(ctx, key)
	source := SourceSharedCache
	if !hit {
		raw, err = s.generator.Generate(ctx, &provider.Request{
			System:    SystemInstruction,
			Prompt:    prompt,
			ForceJSON: true,
		})
		if err != nil {
			return nil, err
		}
		source = SourceGenerated
		s.results.Set(ctx, key, raw, 0)
	}

	items := Normalize(raw)
	matched, unmatched := s.matcher.Match(ctx, items)

	rec := &common.Recommendation{
		TripID:     tripID,
		UserID:     userID,
		Products:   matched,
		AIPrompt:   prompt,
		AIResponse: raw,
		CacheKey:   key,
		ExpiresAt:  time.Now().Add(s.ttl),
	}
	saved, err := s.store.Upsert(ctx, rec)
	if err != nil {
		return nil, err
	}

	if err := s.trips.AttachRecommendation(ctx, tripID, userID, saved.ID); err != nil {
		// 反向參照失敗不影響已寫入的推薦
		common.LogWarn("行程反向參照更新失敗",
			zap.String("trip_id", tripID.Hex()),
			zap.Error(err))
	}

	common.LogInfo("推薦已產生",
		zap.String("trip_id", tripID.Hex()),
		zap.String("source", string(source)),
		zap.Int("item_count", len(items)),
		zap.Int("unmatched_count", len(unmatched)))

	return &Result{Recommendation: saved, Unmatched: unmatched, Source: source}, nil
}

// ListByUser 列出使用者的所有推薦紀錄
func (s *Service) ListByUser(ctx context.Context, userID string) ([]common.Recommendation, error) {
	return s.store.FindByUser(ctx, userID)
}

// Delete 刪除行程的推薦紀錄並清掉行程上的反向參照。
// 共享快取刻意不清，其他使用者的相同行程屬性仍可命中
func (s *Service) Delete(ctx context.Context, tripID primitive.ObjectID, userID string) (int64, error) {
	if _, err := s.trips.FindByID(ctx, tripID, userID); err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteMany(ctx, tripID, userID)
	if err != nil {
		return 0, err
	}

	if err := s.trips.ClearRecommendations(ctx, tripID, userID); err != nil {
		common.LogWarn("行程反向參照清除失敗",
			zap.String("trip_id", tripID.Hex()),
			zap.Error(err))
	}

	common.LogInfo("推薦紀錄已刪除",
		zap.String("trip_id", tripID.Hex()),
		zap.Int64("deleted", deleted))
	return deleted, nil
}

// Status 回報各供應商與快取的可用狀態
func (s *Service) Status() map[string]any {
	return map[string]any{
		"providers":       s.generator.Status(),
		"cache_available": s.results.Available(),
	}
}
