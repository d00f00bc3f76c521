package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bagitup-api/internal/core/ai/provider"
	"bagitup-api/internal/pkg/common"
)

// stubProvider 測試用供應商
type stubProvider struct {
	name      string
	available bool
	response  string
	err       error
	calls     int
}

func (p *stubProvider) Name() string    { return p.name }
func (p *stubProvider) Available() bool { return p.available }

func (p *stubProvider) Generate(ctx context.Context, req *provider.Request) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func TestChainFirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "groq", available: true, response: "from groq"}
	second := &stubProvider{name: "gemini", available: true, response: "from gemini"}
	chain := NewChain(100, 10, first, second)

	text, err := chain.Generate(context.Background(), &provider.Request{Prompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, "from groq", text)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestChainFallsBackOnFailure(t *testing.T) {
	first := &stubProvider{name: "groq", available: true, err: errors.New("rate limited")}
	second := &stubProvider{name: "gemini", available: true, response: "from gemini"}
	chain := NewChain(100, 10, first, second)

	text, err := chain.Generate(context.Background(), &provider.Request{Prompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, "from gemini", text)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChainSkipsUnavailableProviders(t *testing.T) {
	first := &stubProvider{name: "groq", available: false, response: "from groq"}
	second := &stubProvider{name: "gemini", available: true, response: "from gemini"}
	chain := NewChain(100, 10, first, second)

	text, err := chain.Generate(context.Background(), &provider.Request{Prompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, "from gemini", text)
	assert.Equal(t, 0, first.calls)
}

func TestChainExhaustionCollectsCauses(t *testing.T) {
	first := &stubProvider{name: "groq", available: true, err: errors.New("boom groq")}
	second := &stubProvider{name: "gemini", available: true, err: errors.New("boom gemini")}
	chain := NewChain(100, 10, first, second)

	_, err := chain.Generate(context.Background(), &provider.Request{Prompt: "test"})

	var exhaustion *ExhaustionError
	require.ErrorAs(t, err, &exhaustion)
	assert.Len(t, exhaustion.Causes, 2)
	assert.Contains(t, err.Error(), "boom groq")
	assert.Contains(t, err.Error(), "boom gemini")
}

func TestChainNoProviderConfigured(t *testing.T) {
	chain := NewChain(100, 10)

	_, err := chain.Generate(context.Background(), &provider.Request{Prompt: "test"})

	assert.ErrorIs(t, err, common.ErrNoProviderConfigured)
}

func TestChainAllUnavailableIsNotExhaustion(t *testing.T) {
	first := &stubProvider{name: "groq", available: false}
	chain := NewChain(100, 10, first)

	_, err := chain.Generate(context.Background(), &provider.Request{Prompt: "test"})

	assert.ErrorIs(t, err, common.ErrNoProviderConfigured)
	assert.Equal(t, 0, first.calls)
}

func TestChainStatus(t *testing.T) {
	chain := NewChain(100, 10,
		&stubProvider{name: "groq", available: true},
		&stubProvider{name: "gemini", available: false},
	)

	status := chain.Status()
	assert.Equal(t, map[string]bool{"groq": true, "gemini": false}, status)
}

func TestChainMockProvider(t *testing.T) {
	chain := NewChain(100, 10, provider.NewMock())

	text, err := chain.Generate(context.Background(), &provider.Request{Prompt: "test"})

	require.NoError(t, err)
	assert.Contains(t, text, "name")
}
