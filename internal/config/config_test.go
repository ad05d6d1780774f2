package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL", "GEMINI_API_VERSION",
		"LOG_LEVEL", "PREFER_IPV4", "WEB_ADDR", "MAX_CONCURRENT", "MAX_HISTORY",
		"MAX_UPLOAD_MB", "IMAGE_MAX_DIMENSION", "REQUEST_TIMEOUT_SECONDS", "HTTP_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Offline())
	assert.Equal(t, DefaultModel, cfg.GeminiModel)
	assert.Equal(t, "v1beta", cfg.GeminiAPIVersion)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.WebAddr)
	assert.Equal(t, 4, cfg.MaxConcurrent)
	assert.Equal(t, 50, cfg.MaxHistory)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 1536, cfg.ImageMaxDimension)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.PreferIPv4)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "  key-123 ")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("PREFER_IPV4", "false")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Offline())
	assert.Equal(t, "key-123", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.PreferIPv4)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_Clamps(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_CONCURRENT", "0")
	t.Setenv("MAX_HISTORY", "-3")
	t.Setenv("IMAGE_MAX_DIMENSION", "10")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.MaxConcurrent)
	assert.Equal(t, 1, cfg.MaxHistory)
	assert.Equal(t, 1536, cfg.ImageMaxDimension)
	assert.Equal(t, 120*time.Second, cfg.HTTPTimeout)
}

func TestLoad_RejectsRelativeBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_BASE_URL", "generativelanguage")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_BASE_URL")
}
