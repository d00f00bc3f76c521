package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"bagitup-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider Google Gemini 客戶端，鏈的第二順位
type GeminiProvider struct {
	cfg    Config
	client *resty.Client
}

// NewGemini 創建 Gemini 提供者
func NewGemini(cfg Config) *GeminiProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetTimeout(cfg.Timeout)

	return &GeminiProvider{
		cfg:    cfg,
		client: client,
	}
}

// Name 供應商名稱
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Available 只要有 API Key 就視為已配置
func (p *GeminiProvider) Available() bool {
	return p.cfg.APIKey != ""
}

// geminiPart generateContent 的文字片段
type geminiPart struct {
	Text string `json:"text"`
}

// geminiContent 單輪內容
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

// geminiRequest generateContent 請求
type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  *struct {
		Temperature      float64 `json:"temperature,omitempty"`
		ResponseMimeType string  `json:"responseMimeType,omitempty"`
	} `json:"generationConfig,omitempty"`
}

// Generate 生成回應
func (p *GeminiProvider) Generate(ctx context.Context, req *Request) (string, error) {
	if !p.Available() {
		return "", fmt.Errorf("gemini: %w", common.ErrNoProviderConfigured)
	}

	// 構建請求：Gemini 的系統指示與 JSON 模式走各自的欄位
	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	body.GenerationConfig = &struct {
		Temperature      float64 `json:"temperature,omitempty"`
		ResponseMimeType string  `json:"responseMimeType,omitempty"`
	}{Temperature: 0.7}
	if req.ForceJSON {
		body.GenerationConfig.ResponseMimeType = "application/json"
	}

	common.LogInfo("Sending request to Gemini",
		zap.String("model", p.cfg.Model),
	)

	// 發送請求
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/models/%s:generateContent", p.cfg.Model))

	if err != nil {
		return "", fmt.Errorf("failed to send request to Gemini: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Gemini API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 解析回應
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates in Gemini response")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("empty content in Gemini response")
	}

	return text, nil
}
