package providers

import (
	"fmt"

	"github.com/sipeed/picoweather/pkg/config"
	anthropicprovider "github.com/sipeed/picoweather/pkg/providers/anthropic"
	"github.com/sipeed/picoweather/pkg/providers/openai_sdk"
)

// CreateProvider builds the chat provider selected by cfg and returns it with
// the resolved model ID. A provider prefix on the model ("anthropic/...")
// overrides cfg.Provider.Name.
func CreateProvider(cfg *config.Config) (LLMProvider, string, error) {
	ref := ParseModelRef(cfg.Provider.Model, cfg.Provider.Name)
	name := cfg.Provider.Name
	model := ""
	if ref != nil {
		name = ref.Provider
		model = ref.Model
	}

	switch name {
	case config.ProviderOpenAI:
		if cfg.Provider.OpenAIAPIKey == "" {
			return nil, "", config.ErrMissingOpenAIKey
		}
		p := openai_sdk.NewProvider(
			cfg.Provider.OpenAIAPIKey,
			cfg.Provider.OpenAIBaseURL,
			openai_sdk.WithRequestTimeout(cfg.Provider.RequestTimeout()),
		)
		if model == "" {
			model = p.GetDefaultModel()
		}
		return p, model, nil
	case config.ProviderAnthropic:
		if cfg.Provider.AnthropicAPIKey == "" {
			return nil, "", config.ErrMissingAnthropicKey
		}
		p := anthropicprovider.NewProvider(
			cfg.Provider.AnthropicAPIKey,
			cfg.Provider.AnthropicBaseURL,
			anthropicprovider.WithRequestTimeout(cfg.Provider.RequestTimeout()),
		)
		if model == "" || model == config.DefaultModel {
			model = p.GetDefaultModel()
		}
		return p, model, nil
	default:
		return nil, "", fmt.Errorf("unknown provider %q", name)
	}
}
