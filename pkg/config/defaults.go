// PicoWeather - terminal weather assistant
// License: MIT

package config

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	FollowUpNone = "none"
	FollowUpOnce = "once"

	DefaultSystemPrompt = "You are a helpful weather assistant."
	DefaultModel        = "gpt-3.5-turbo"
	DefaultWeatherBase  = "http://api.weatherapi.com"
)

// DefaultConfig returns the default configuration for PicoWeather.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:               ProviderOpenAI,
			Model:              DefaultModel,
			RequestTimeoutSecs: 60,
		},
		Weather: WeatherConfig{
			BaseURL:            DefaultWeatherBase,
			ForecastDays:       3,
			RequestTimeoutSecs: 30,
		},
		Agent: AgentConfig{
			SystemPrompt: DefaultSystemPrompt,
			FollowUp:     FollowUpOnce,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}
