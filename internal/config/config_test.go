package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("PORT", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017/flashid", cfg.MongoURI)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadTrimsTrailingSlashes(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("WEBHOOK_BASE_URL", "https://bot.flashid.example/")
	t.Setenv("SECURITY_IMAGE_BASE_URL", "https://cdn.flashid.example/icons/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://bot.flashid.example", cfg.WebhookBaseURL)
	assert.Equal(t, "https://cdn.flashid.example/icons", cfg.SecurityImageBaseURL)
}
