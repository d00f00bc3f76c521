package provider

import (
	"context"
	"time"
)

// Request 表示發送到 AI 提供者的請求。各家供應商的 wire 格式不同，
// 由各自的實作負責轉換，這裡只保留共通欄位。
type Request struct {
	System    string // 系統指示
	Prompt    string // 使用者提示
	ForceJSON bool   // 要求供應商以各自的 JSON 模式回應
}

// Provider 定義 AI 提供者介面，輸入 prompt、輸出原始文字
type Provider interface {
	// Name 供應商名稱，用於日誌與 status 端點
	Name() string

	// Available 是否已配置（缺 API Key 時為 false，屬於降級而非錯誤）
	Available() bool

	// Generate 生成 AI 回應的原始文字
	Generate(ctx context.Context, req *Request) (string, error)
}

// Config 定義 AI 提供者配置
type Config struct {
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxTokens int
	BaseURL   string
}
