package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sipeed/picoweather/pkg/utils"
)

var (
	ErrMissingOpenAIKey    = errors.New("OPENAI_API_KEY is not set")
	ErrMissingAnthropicKey = errors.New("ANTHROPIC_API_KEY is not set")
	ErrMissingWeatherKey   = errors.New("WEATHER_API_KEY is not set")
)

// MaxForecastDays is the largest day count the weather provider serves.
const MaxForecastDays = 14

type ProviderConfig struct {
	Name               string   `json:"name" env:"PICOWEATHER_PROVIDER"`
	Model              string   `json:"model" env:"PICOWEATHER_MODEL"`
	OpenAIAPIKey       string   `json:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL      string   `json:"openai_base_url" env:"PICOWEATHER_OPENAI_BASE_URL"`
	AnthropicAPIKey    string   `json:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL   string   `json:"anthropic_base_url" env:"PICOWEATHER_ANTHROPIC_BASE_URL"`
	MaxTokens          int      `json:"max_tokens" env:"PICOWEATHER_MAX_TOKENS"`
	Temperature        *float64 `json:"temperature,omitempty" env:"PICOWEATHER_TEMPERATURE"`
	RequestTimeoutSecs int      `json:"request_timeout_seconds" env:"PICOWEATHER_HTTP_TIMEOUT"`
}

type WeatherConfig struct {
	APIKey             string `json:"api_key" env:"WEATHER_API_KEY"`
	BaseURL            string `json:"base_url" env:"PICOWEATHER_WEATHER_BASE_URL"`
	ForecastDays       int    `json:"forecast_days" env:"PICOWEATHER_FORECAST_DAYS"`
	RequestTimeoutSecs int    `json:"request_timeout_seconds" env:"PICOWEATHER_WEATHER_TIMEOUT"`
}

type AgentConfig struct {
	SystemPrompt string `json:"system_prompt" env:"PICOWEATHER_SYSTEM_PROMPT"`
	FollowUp     string `json:"follow_up" env:"PICOWEATHER_FOLLOW_UP"`
}

type LoggingConfig struct {
	Level string `json:"level" env:"PICOWEATHER_LOG_LEVEL"`
	File  string `json:"file" env:"PICOWEATHER_LOG_FILE"`
}

type Config struct {
	Provider ProviderConfig `json:"provider"`
	Weather  WeatherConfig  `json:"weather"`
	Agent    AgentConfig    `json:"agent"`
	Logging  LoggingConfig  `json:"logging"`
}

// LoadConfig starts from DefaultConfig, overlays the JSON file at path when
// it exists, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return utils.WritePrivateFile(path, data)
}

func (c *Config) normalize() {
	c.Provider.Name = strings.ToLower(strings.TrimSpace(c.Provider.Name))
	c.Agent.FollowUp = strings.ToLower(strings.TrimSpace(c.Agent.FollowUp))
	if c.Weather.ForecastDays <= 0 {
		c.Weather.ForecastDays = 3
	}
	if strings.TrimSpace(c.Agent.SystemPrompt) == "" {
		c.Agent.SystemPrompt = DefaultSystemPrompt
	}
}

// EffectiveProvider returns the provider a "openai/" or "anthropic/" model
// prefix selects, falling back to Provider.Name.
func (c *Config) EffectiveProvider() string {
	model := strings.ToLower(strings.TrimSpace(c.Provider.Model))
	for _, name := range []string{ProviderOpenAI, ProviderAnthropic} {
		if strings.HasPrefix(model, name+"/") {
			return name
		}
	}
	return c.Provider.Name
}

// Validate reports every missing key or invalid setting at once so the user
// can fix them before the first request goes out.
func (c *Config) Validate() error {
	var errs []error

	switch c.EffectiveProvider() {
	case ProviderOpenAI:
		if strings.TrimSpace(c.Provider.OpenAIAPIKey) == "" {
			errs = append(errs, ErrMissingOpenAIKey)
		}
	case ProviderAnthropic:
		if strings.TrimSpace(c.Provider.AnthropicAPIKey) == "" {
			errs = append(errs, ErrMissingAnthropicKey)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q (want %s or %s)",
			c.EffectiveProvider(), ProviderOpenAI, ProviderAnthropic))
	}

	if strings.TrimSpace(c.Weather.APIKey) == "" {
		errs = append(errs, ErrMissingWeatherKey)
	}

	if c.Weather.ForecastDays < 1 || c.Weather.ForecastDays > MaxForecastDays {
		errs = append(errs, fmt.Errorf("forecast_days must be between 1 and %d, got %d",
			MaxForecastDays, c.Weather.ForecastDays))
	}

	switch c.Agent.FollowUp {
	case FollowUpNone, FollowUpOnce:
	default:
		errs = append(errs, fmt.Errorf("follow_up must be %q or %q, got %q",
			FollowUpNone, FollowUpOnce, c.Agent.FollowUp))
	}

	return errors.Join(errs...)
}

// ValidateWeather checks only what the direct weather commands need.
func (c *Config) ValidateWeather() error {
	if strings.TrimSpace(c.Weather.APIKey) == "" {
		return ErrMissingWeatherKey
	}
	return nil
}

// Secrets lists configured credentials so they can be registered with the
// log redactor.
func (c *Config) Secrets() []string {
	return []string{c.Provider.OpenAIAPIKey, c.Provider.AnthropicAPIKey, c.Weather.APIKey}
}

func (p ProviderConfig) RequestTimeout() time.Duration {
	return time.Duration(p.RequestTimeoutSecs) * time.Second
}

func (w WeatherConfig) RequestTimeout() time.Duration {
	return time.Duration(w.RequestTimeoutSecs) * time.Second
}
