package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipeed/picoweather/pkg/config"
	anthropicprovider "github.com/sipeed/picoweather/pkg/providers/anthropic"
	"github.com/sipeed/picoweather/pkg/providers/openai_sdk"
)

func TestParseModelRef(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		def          string
		wantProvider string
		wantModel    string
	}{
		{"openai prefix", "openai/gpt-4o-mini", "anthropic", "openai", "gpt-4o-mini"},
		{"anthropic prefix", "Anthropic/claude-3-5-haiku-latest", "openai", "anthropic", "claude-3-5-haiku-latest"},
		{"no prefix", "gpt-3.5-turbo", "openai", "openai", "gpt-3.5-turbo"},
		{"unknown prefix kept in model", "meta/llama", "openai", "openai", "meta/llama"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := ParseModelRef(tt.raw, tt.def)
			require.NotNil(t, ref)
			assert.Equal(t, tt.wantProvider, ref.Provider)
			assert.Equal(t, tt.wantModel, ref.Model)
		})
	}

	assert.Nil(t, ParseModelRef("  ", "openai"))
	assert.Nil(t, ParseModelRef("openai/", "openai"))
}

func TestCreateProvider_OpenAI(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider.OpenAIAPIKey = "sk-test"

	p, model, err := CreateProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &openai_sdk.Provider{}, p)
	assert.Equal(t, "gpt-3.5-turbo", model)
}

func TestCreateProvider_AnthropicUsesItsDefaultModel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider.Name = config.ProviderAnthropic
	cfg.Provider.AnthropicAPIKey = "sk-ant-test"

	p, model, err := CreateProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &anthropicprovider.Provider{}, p)
	assert.Equal(t, p.GetDefaultModel(), model)
}

func TestCreateProvider_PrefixOverridesName(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider.Model = "anthropic/claude-3-5-sonnet-latest"
	cfg.Provider.AnthropicAPIKey = "sk-ant-test"

	p, model, err := CreateProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &anthropicprovider.Provider{}, p)
	assert.Equal(t, "claude-3-5-sonnet-latest", model)
}

func TestCreateProvider_MissingKey(t *testing.T) {
	cfg := config.DefaultConfig()

	_, _, err := CreateProvider(cfg)
	assert.ErrorIs(t, err, config.ErrMissingOpenAIKey)
}

func TestCreateProvider_Unknown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider.Name = "gemini"

	_, _, err := CreateProvider(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
