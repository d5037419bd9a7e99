package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	for _, key := range []string{"DATABASE_URL", "DB_DRIVER", "REDIS_HOST", "ALLOWED_HOSTS", "JWT_ACCESS_EXPIRY", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, []string{"*"}, cfg.App.AllowedHosts)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, "openai/gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 300, cfg.LLM.MaxTokens)
	assert.Equal(t, "Assistente Terapeuta", cfg.LLM.Title)
	assert.False(t, cfg.Redis.Enabled())
	assert.Empty(t, cfg.Security.TrustedProxies)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "fallback-secret")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/therapy")
	t.Setenv("ALLOWED_HOSTS", "api.example.com, .example.org ,")
	t.Setenv("CSRF_TRUSTED_ORIGINS", "https://app.example.com")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("JWT_ACCESS_EXPIRY", "bogus")
	t.Setenv("OPENROUTER_BASE_URL", "https://llm.example.com/v1/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "fallback-secret", cfg.JWT.Secret)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, []string{"api.example.com", ".example.org"}, cfg.App.AllowedHosts)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Security.TrustedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.Security.TrustedProxies)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, "https://llm.example.com/v1", cfg.LLM.BaseURL)
}
