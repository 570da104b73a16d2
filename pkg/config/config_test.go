package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "WEATHER_API_KEY",
		"PICOWEATHER_PROVIDER", "PICOWEATHER_MODEL", "PICOWEATHER_FOLLOW_UP",
		"PICOWEATHER_FORECAST_DAYS", "PICOWEATHER_TEMPERATURE", "PICOWEATHER_SYSTEM_PROMPT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, cfg.Provider.Name)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Provider.Model)
	assert.Equal(t, "You are a helpful weather assistant.", cfg.Agent.SystemPrompt)
	assert.Equal(t, FollowUpOnce, cfg.Agent.FollowUp)
	assert.Equal(t, 3, cfg.Weather.ForecastDays)
	assert.Equal(t, "http://api.weatherapi.com", cfg.Weather.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Provider.RequestTimeout())
}

func TestLoadConfig_MissingFileStillReadsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("WEATHER_API_KEY", "wk-test")
	t.Setenv("PICOWEATHER_FOLLOW_UP", "NONE")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Provider.OpenAIAPIKey)
	assert.Equal(t, "wk-test", cfg.Weather.APIKey)
	assert.Equal(t, FollowUpNone, cfg.Agent.FollowUp)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"provider": {"name": "anthropic", "model": "claude-3-5-haiku-latest", "anthropic_api_key": "from-file"},
		"weather": {"api_key": "w", "forecast_days": 5}
	}`), 0o600))
	t.Setenv("PICOWEATHER_FORECAST_DAYS", "7")
	t.Setenv("PICOWEATHER_TEMPERATURE", "0.3")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.Provider.Name)
	assert.Equal(t, "from-file", cfg.Provider.AnthropicAPIKey)
	assert.Equal(t, 7, cfg.Weather.ForecastDays)
	require.NotNil(t, cfg.Provider.Temperature)
	assert.InDelta(t, 0.3, *cfg.Provider.Temperature, 1e-9)
	assert.Equal(t, DefaultSystemPrompt, cfg.Agent.SystemPrompt)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{bad json`), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weather.ForecastDays = 20
	cfg.Agent.FollowUp = "twice"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingOpenAIKey))
	assert.True(t, errors.Is(err, ErrMissingWeatherKey))
	assert.Contains(t, err.Error(), "forecast_days")
	assert.Contains(t, err.Error(), "follow_up")
}

func TestValidate_AnthropicNeedsItsOwnKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.Name = ProviderAnthropic
	cfg.Provider.OpenAIAPIKey = "sk-unused"
	cfg.Weather.APIKey = "w"

	assert.ErrorIs(t, cfg.Validate(), ErrMissingAnthropicKey)
}

func TestValidate_ModelPrefixSelectsProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.Model = "anthropic/claude-3-5-haiku-latest"
	cfg.Provider.AnthropicAPIKey = "sk-ant-test"
	cfg.Weather.APIKey = "w"

	assert.Equal(t, ProviderAnthropic, cfg.EffectiveProvider())
	assert.NoError(t, cfg.Validate())
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.Name = "gemini"
	cfg.Weather.APIKey = "w"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestValidateWeather(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, cfg.ValidateWeather(), ErrMissingWeatherKey)
	cfg.Weather.APIKey = "w"
	assert.NoError(t, cfg.ValidateWeather())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.Weather.APIKey = "w"

	require.NoError(t, SaveConfig(path, cfg))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "w", loaded.Weather.APIKey)
}

func TestResolveRuntimePaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPicoWeatherConfig, "")
	t.Setenv(EnvPicoWeatherHome, dir)

	paths := ResolveRuntimePaths()
	assert.Equal(t, dir, paths.HomeDir)
	assert.Equal(t, filepath.Join(dir, "config.json"), paths.ConfigPath)
	assert.Equal(t, filepath.Join(dir, "history"), paths.HistoryPath)

	custom := filepath.Join(dir, "alt", "cfg.json")
	t.Setenv(EnvPicoWeatherConfig, custom)
	paths = ResolveRuntimePaths()
	assert.Equal(t, custom, paths.ConfigPath)
	assert.Equal(t, filepath.Join(dir, "alt"), paths.HomeDir)
}
