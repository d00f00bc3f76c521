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

func groqTestServer(t *testing.T, status int, response string, capture *groqRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

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

func newTestGroq(baseURL string) *GroqProvider {
	return NewGroq(Config{
		APIKey:    "test-key",
		Model:     "llama-3.3-70b-versatile",
		MaxTokens: 1024,
		Timeout:   5 * time.Second,
		BaseURL:   baseURL,
	})
}

func TestGroqGenerate(t *testing.T) {
	var captured groqRequest
	server := groqTestServer(t, http.StatusOK,
		`{"choices": [{"message": {"content": "[{\"name\": \"Backpack\"}]"}}]}`, &captured)
	defer server.Close()

	p := newTestGroq(server.URL)
	text, err := p.Generate(context.Background(), &Request{
		System:    "You are a packing assistant",
		Prompt:    "pack for Tokyo",
		ForceJSON: true,
	})

	require.NoError(t, err)
	assert.Equal(t, `[{"name": "Backpack"}]`, text)

	// 系統指示與使用者提示各佔一則消息
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, "json_object", captured.ResponseFormat.Type)
}

func TestGroqGenerateAPIError(t *testing.T) {
	server := groqTestServer(t, http.StatusTooManyRequests, `{"error": "rate limited"}`, nil)
	defer server.Close()

	p := newTestGroq(server.URL)
	_, err := p.Generate(context.Background(), &Request{Prompt: "pack"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGroqGenerateEmptyChoices(t *testing.T) {
	server := groqTestServer(t, http.StatusOK, `{"choices": []}`, nil)
	defer server.Close()

	p := newTestGroq(server.URL)
	_, err := p.Generate(context.Background(), &Request{Prompt: "pack"})

	assert.Error(t, err)
}

func TestGroqUnavailableWithoutKey(t *testing.T) {
	p := NewGroq(Config{})
	assert.False(t, p.Available())

	_, err := p.Generate(context.Background(), &Request{Prompt: "pack"})
	assert.Error(t, err)
}
