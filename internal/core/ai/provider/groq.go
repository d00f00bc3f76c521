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

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider Groq 客戶端，鏈的第一順位（低延遲）
type GroqProvider struct {
	cfg    Config
	client *resty.Client
}

// NewGroq 創建 Groq 提供者
func NewGroq(cfg Config) *GroqProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = groqBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetTimeout(cfg.Timeout)

	return &GroqProvider{
		cfg:    cfg,
		client: client,
	}
}

// Name 供應商名稱
func (p *GroqProvider) Name() string {
	return "groq"
}

// Available 只要有 API Key 就視為已配置
func (p *GroqProvider) Available() bool {
	return p.cfg.APIKey != ""
}

// groqMessage OpenAI 相容的消息結構
type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// groqRequest Groq chat completions 請求
type groqRequest struct {
	Model          string        `json:"model"`
	Messages       []groqMessage `json:"messages"`
	Temperature    float64       `json:"temperature,omitempty"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

// Generate 生成回應
func (p *GroqProvider) Generate(ctx context.Context, req *Request) (string, error) {
	if !p.Available() {
		return "", fmt.Errorf("groq: %w", common.ErrNoProviderConfigured)
	}

	// 構建請求
	body := groqRequest{
		Model:       p.cfg.Model,
		Temperature: 0.7,
		MaxTokens:   p.cfg.MaxTokens,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, groqMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, groqMessage{Role: "user", Content: req.Prompt})

	// Groq 的 JSON 模式：response_format 指定 json_object
	if req.ForceJSON {
		body.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}

	common.LogInfo("Sending request to Groq",
		zap.String("model", p.cfg.Model),
		zap.Int("messages", len(body.Messages)),
	)

	// 發送請求
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to Groq: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Groq API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Groq response: %w", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty content in Groq response")
	}

	return result.Choices[0].Message.Content, nil
}
