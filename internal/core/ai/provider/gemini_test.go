package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiTestServer(t *testing.T, status int, response string, capture *geminiRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash-exp:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		if capture != nil {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, capture))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
}

func newTestGemini(baseURL string) *GeminiProvider {
	return NewGemini(Config{
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash-exp",
		Timeout: 5 * time.Second,
		BaseURL: baseURL,
	})
}

func TestGeminiGenerate(t *testing.T) {
	var captured geminiRequest
	server := geminiTestServer(t, http.StatusOK,
		`{"candidates": [{"content": {"parts": [{"text": "[{\"name\": \"Adapter\"}]"}]}}]}`, &captured)
	defer server.Close()

	p := newTestGemini(server.URL)
	text, err := p.Generate(context.Background(), &Request{
		System:    "You are a packing assistant",
		Prompt:    "pack for Kyoto",
		ForceJSON: true,
	})

	require.NoError(t, err)
	assert.Equal(t, `[{"name": "Adapter"}]`, text)

	// 系統指示與 JSON 模式走 Gemini 自己的欄位
	require.NotNil(t, captured.SystemInstruction)
	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "user", captured.Contents[0].Role)
	require.NotNil(t, captured.GenerationConfig)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
}

func TestGeminiGenerateAPIError(t *testing.T) {
	server := geminiTestServer(t, http.StatusServiceUnavailable, `{"error": "overloaded"}`, nil)
	defer server.Close()

	p := newTestGemini(server.URL)
	_, err := p.Generate(context.Background(), &Request{Prompt: "pack"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	server := geminiTestServer(t, http.StatusOK, `{"candidates": []}`, nil)
	defer server.Close()

	p := newTestGemini(server.URL)
	_, err := p.Generate(context.Background(), &Request{Prompt: "pack"})

	assert.Error(t, err)
}

func TestGeminiUnavailableWithoutKey(t *testing.T) {
	p := NewGemini(Config{})
	assert.False(t, p.Available())
}
