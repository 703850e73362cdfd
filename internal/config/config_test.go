package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_JSON", "LOG_DEBUG", "LLM_PROVIDER", "ANTHROPIC_MODEL",
		"ANTHROPIC_BASE_URL", "GEMINI_MODEL", "GEMINI_BASE_URL", "UPSTREAM_TIMEOUT",
		"MAX_FILE_SIZE", "MIN_FILE_SIZE", "RESUME_PROBE_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.UpstreamTimeout)
	assert.Equal(t, int64(10<<20), cfg.Resume.MaxFileSize)
	assert.Equal(t, int64(1<<10), cfg.Resume.MinFileSize)
	assert.False(t, cfg.Resume.ProbeEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("LLM_PROVIDER", " Gemini ")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("UPSTREAM_TIMEOUT", "90s")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("MIN_FILE_SIZE", "10")
	t.Setenv("RESUME_PROBE_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model())
	assert.Equal(t, 90*time.Second, cfg.LLM.UpstreamTimeout)
	assert.Equal(t, int64(2048), cfg.Resume.MaxFileSize)
	assert.Equal(t, int64(10), cfg.Resume.MinFileSize)
	assert.True(t, cfg.Resume.ProbeEnabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("UPSTREAM_TIMEOUT", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "UPSTREAM_TIMEOUT")
	})

	t.Run("min above max", func(t *testing.T) {
		t.Setenv("UPSTREAM_TIMEOUT", "")
		t.Setenv("MAX_FILE_SIZE", "100")
		t.Setenv("MIN_FILE_SIZE", "200")
		_, err := Load()
		assert.ErrorContains(t, err, "MIN_FILE_SIZE")
	})
}
