package providers

import "strings"

// ModelRef represents a parsed model reference with provider and model name.
type ModelRef struct {
	Provider string
	Model    string
}

// ParseModelRef parses "anthropic/claude-3-5-haiku-latest" into
// {Provider: "anthropic", Model: "claude-3-5-haiku-latest"}. Without a known
// provider prefix the whole string is the model and defaultProvider applies.
// Returns nil for empty input.
func ParseModelRef(raw string, defaultProvider string) *ModelRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if idx := strings.Index(raw, "/"); idx > 0 {
		prefix := strings.ToLower(strings.TrimSpace(raw[:idx]))
		model := strings.TrimSpace(raw[idx+1:])
		if model == "" {
			return nil
		}
		if prefix == "openai" || prefix == "anthropic" {
			return &ModelRef{Provider: prefix, Model: model}
		}
	}

	return &ModelRef{
		Provider: strings.ToLower(strings.TrimSpace(defaultProvider)),
		Model:    raw,
	}
}
