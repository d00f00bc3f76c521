package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// 認證預設開啟，測試裡提供秘鑰讓驗證通過
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "bagitup", cfg.Mongo.Database)
	assert.True(t, cfg.Auth.Enabled)
	assert.False(t, cfg.AI.UseMock)
	assert.Equal(t, 7*24*time.Hour, cfg.AI.RecommendationTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	// Redis 位址預設為空，快取為 no-op 模式
	assert.Empty(t, cfg.Cache.Addr)
	assert.Equal(t, time.Second, cfg.DedupWindow)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MONGODB_DATABASE", "bagitup_test")
	t.Setenv("USE_MOCK_RECOMMENDATIONS", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("GROQ_API_KEY", "gsk_test_key_value")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "bagitup_test", cfg.Mongo.Database)
	assert.True(t, cfg.AI.UseMock)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr)
	assert.Equal(t, "gsk_test_key_value", cfg.Groq.APIKey)
}

func TestLoadConfigRequiresJWTSecretWhenAuthEnabled(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigAuthDisabledNeedsNoSecret(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Auth.Enabled)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskAPIKey(""))
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "gsk_...head", maskAPIKey("gsk_1234_ahead"))
}
