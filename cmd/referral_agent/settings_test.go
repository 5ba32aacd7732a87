package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/referral-scout/internal/config"
	"github.com/jonathan/referral-scout/internal/llm"
	"github.com/jonathan/referral-scout/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals(t *testing.T) {
	t.Helper()
	configPath, verbose = "", false
	t.Cleanup(func() { configPath, verbose = "", false })
}

func envFrom(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestLoadSettings_Defaults(t *testing.T) {
	resetGlobals(t)

	cfg, err := loadSettings(envFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().TrackerPath, cfg.TrackerPath)
	assert.Equal(t, config.SearchBackendWeb, cfg.SearchBackend)
	assert.False(t, cfg.Verbose)
}

func TestLoadSettings_Precedence(t *testing.T) {
	resetGlobals(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tracker_path": "file.xlsx", "sender_name": "From File", "search_pause_seconds": 1}`), 0644))
	configPath = path
	verbose = true

	cfg, err := loadSettings(envFrom(map[string]string{"SENDER_NAME": "From Env"}))
	require.NoError(t, err)

	assert.Equal(t, "file.xlsx", cfg.TrackerPath)
	assert.Equal(t, "From Env", cfg.SenderName)
	assert.Equal(t, float64(1), cfg.SearchPauseSeconds)
	assert.Equal(t, config.Defaults().APICallDelaySeconds, cfg.APICallDelaySeconds)
	assert.True(t, cfg.Verbose)
}

func TestLoadSettings_InvalidFile(t *testing.T) {
	resetGlobals(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"search_backend": "bing"}`), 0644))
	configPath = path

	_, err := loadSettings(envFrom(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search_backend")
}

func TestLoadSettings_MissingFile(t *testing.T) {
	resetGlobals(t)
	configPath = filepath.Join(t.TempDir(), "missing.json")

	_, err := loadSettings(envFrom(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestNewSearchBackend(t *testing.T) {
	cfg := config.Defaults()

	backend, err := newSearchBackend(context.Background(), &cfg)
	require.NoError(t, err)
	assert.IsType(t, &search.WebBackend{}, backend)

	cfg.SearchBackend = config.SearchBackendCustom
	_, err = newSearchBackend(context.Background(), &cfg)
	assert.ErrorIs(t, err, search.ErrMissingCredentials)
}

func TestNewResumeBuilder_FileCache(t *testing.T) {
	cfg := config.Defaults()
	cfg.ProfileCachePath = filepath.Join(t.TempDir(), "cache.json")

	builder, database, cleanup, err := newResumeBuilder(context.Background(), &cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, builder)
	assert.Nil(t, database)
}

func TestLLMConfig_ModelOverrides(t *testing.T) {
	cfg := config.Defaults()
	cfg.LLMTimeoutSeconds = 30
	cfg.LLMModels = map[string]string{"advanced": "gemini-2.5-flash"}

	llmCfg := llmConfig(&cfg)

	assert.Equal(t, llm.ProviderGemini, llmCfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", llmCfg.GetModel(llm.TierAdvanced))
	assert.Equal(t, llm.DefaultGeminiConfig().GetModel(llm.TierLite), llmCfg.GetModel(llm.TierLite))
	assert.Equal(t, 30*time.Second, llmCfg.CallTimeout)
}

func TestLLMConfig_Anthropic(t *testing.T) {
	cfg := config.Defaults()
	cfg.LLMProvider = config.ProviderAnthropic

	llmCfg := llmConfig(&cfg)

	assert.Equal(t, llm.ProviderAnthropic, llmCfg.Provider)
	assert.Equal(t, llm.DefaultAnthropicConfig().GetModel(llm.TierStandard), llmCfg.GetModel(llm.TierStandard))
}
