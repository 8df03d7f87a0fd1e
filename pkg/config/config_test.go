package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.False(t, cfg.CacheEnabled())
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local,http://b.local")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("REDIS_CACHE_TTL", "1m")
	t.Setenv("APP_VERSION", "2.3.4")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "2.3.4", cfg.App.Version)
	assert.True(t, cfg.CacheEnabled())
}

func TestNew_BadDuration(t *testing.T) {
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "dez segundos")

	_, err := New()
	assert.Error(t, err)
}
