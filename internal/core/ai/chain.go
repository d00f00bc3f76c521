package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bagitup-api/internal/core/ai/provider"
	"bagitup-api/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ExhaustionError 鏈上每一個供應商都失敗時回傳，附帶各自的失敗原因
type ExhaustionError struct {
	Causes []error
}

// Error 實現 error 介面
func (e *ExhaustionError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("all AI providers failed: %s", strings.Join(msgs, "; "))
}

// Unwrap 讓 errors.Is / errors.As 可以檢查底層原因
func (e *ExhaustionError) Unwrap() []error {
	return e.Causes
}

// Chain 依固定優先順序嘗試多個 AI 供應商，對外只暴露文字進、文字出
type Chain struct {
	providers []provider.Provider
	limiter   *rate.Limiter
}

// NewChain 創建供應商鏈，順序即優先序
func NewChain(limit float64, burst int, providers ...provider.Provider) *Chain {
	if limit <= 0 {
		limit = 3
	}
	if burst <= 0 {
		burst = 5
	}
	return &Chain{
		providers: providers,
		limiter:   rate.NewLimiter(rate.Limit(limit), burst),
	}
}

// Generate 依序嘗試每個已配置的供應商。非最後一個供應商的失敗只記錄
// 後繼續；全部失敗回傳 ExhaustionError；一個都沒配置回傳
// ErrNoProviderConfigured。
func (c *Chain) Generate(ctx context.Context, req *provider.Request) (string, error) {
	available := make([]provider.Provider, 0, len(c.providers))
	for _, p := range c.providers {
		if p.Available() {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return "", common.ErrNoProviderConfigured
	}

	// 對外 AI 呼叫統一限速
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	// 同一次產生的所有嘗試共用一個識別，方便跨供應商追蹤
	generationID := uuid.New().String()

	var causes []error
	for i, p := range available {
		start := time.Now()
		text, err := p.Generate(ctx, req)
		common.LogAICall(p.Name(), time.Since(start), err)
		if err == nil {
			return text, nil
		}

		causes = append(causes, fmt.Errorf("%s: %w", p.Name(), err))
		if i < len(available)-1 {
			// 非最後一個供應商：吞掉錯誤，落到下一個
			common.LogWarn("AI 供應商失敗，改用下一順位",
				zap.String("generation_id", generationID),
				zap.String("provider", p.Name()),
				zap.String("next", available[i+1].Name()),
				zap.Error(err),
			)
		}
	}

	return "", &ExhaustionError{Causes: causes}
}

// Status 回報每個供應商的可用狀態，無副作用
func (c *Chain) Status() map[string]bool {
	status := make(map[string]bool, len(c.providers))
	for _, p := range c.providers {
		status[p.Name()] = p.Available()
	}
	return status
}
