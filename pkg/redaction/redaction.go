// Package redaction masks credentials before they reach log output.
// It covers chat-provider keys, bearer tokens and the weather provider's
// key query parameter, which otherwise leaks through request URLs.
package redaction

import (
	"regexp"
	"strings"
	"sync"
)

// Config holds redaction configuration.
type Config struct {
	// Enabled controls whether redaction is active.
	Enabled bool `json:"enabled"`

	// RedactQueryKeys masks key/api_key/token query parameters in URLs.
	RedactQueryKeys bool `json:"redact_query_keys"`

	// CustomPatterns allows additional regex patterns to redact.
	CustomPatterns []string `json:"custom_patterns"`

	// Replacement is the string used to replace sensitive data.
	Replacement string `json:"replacement"`
}

// DefaultConfig returns the default redaction configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		RedactQueryKeys: true,
		Replacement:     "[REDACTED]",
	}
}

// Redactor masks secrets in strings and log fields.
type Redactor struct {
	config         Config
	compiledCustom []*regexp.Regexp
	mu             sync.RWMutex
}

var (
	reProviderKey = regexp.MustCompile(`sk-(?:ant-|proj-)?[a-zA-Z0-9_\-]{16,}`)
	reBearer      = regexp.MustCompile(`(?i)(bearer\s+)([a-zA-Z0-9_\-\.]{16,})`)
	reKeyAssign   = regexp.MustCompile(`(?i)((?:api[_-]?key|x-api-key|secret|token)\s*[=:]\s*['"]?)([a-zA-Z0-9_\-\.]{8,})`)
	reQueryKey    = regexp.MustCompile(`(?i)([?&](?:key|api_key|apikey|token)=)([^&\s"']+)`)
	reJSONSecret  = regexp.MustCompile(`("(?:api_key|apikey|key|secret|token)"\s*:\s*")([^"]+)(")`)
)

// NewRedactor creates a new Redactor with the given configuration.
// Invalid custom patterns are skipped.
func NewRedactor(config Config) *Redactor {
	r := &Redactor{config: config}
	for _, pattern := range config.CustomPatterns {
		if re, err := regexp.Compile(pattern); err == nil {
			r.compiledCustom = append(r.compiledCustom, re)
		}
	}
	return r
}

// Redact applies all configured redaction rules to the input string.
func (r *Redactor) Redact(input string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.config.Enabled || input == "" {
		return input
	}

	repl := r.config.Replacement
	result := reProviderKey.ReplaceAllString(input, repl)
	result = reBearer.ReplaceAllString(result, "${1}"+repl)
	result = reKeyAssign.ReplaceAllString(result, "${1}"+repl)
	result = reJSONSecret.ReplaceAllString(result, "${1}"+repl+"${3}")
	if r.config.RedactQueryKeys {
		result = reQueryKey.ReplaceAllString(result, "${1}"+repl)
	}
	for _, re := range r.compiledCustom {
		result = re.ReplaceAllString(result, repl)
	}
	return result
}

// RedactFields redacts sensitive values in a map. Keys that name a secret
// are replaced wholesale; string values are scanned with Redact.
func (r *Redactor) RedactFields(fields map[string]any) map[string]any {
	r.mu.RLock()
	enabled := r.config.Enabled
	r.mu.RUnlock()
	if !enabled {
		return fields
	}

	result := make(map[string]any, len(fields))
	for k, v := range fields {
		if isSensitiveKey(strings.ToLower(k)) {
			result[k] = r.config.Replacement
			continue
		}
		switch val := v.(type) {
		case string:
			result[k] = r.Redact(val)
		case map[string]any:
			result[k] = r.RedactFields(val)
		default:
			result[k] = v
		}
	}
	return result
}

func isSensitiveKey(key string) bool {
	for _, sk := range []string{"api_key", "apikey", "secret", "token", "password", "credential"} {
		if strings.Contains(key, sk) {
			return true
		}
	}
	return key == "key"
}

// SetEnabled enables or disables redaction at runtime.
func (r *Redactor) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config.Enabled = enabled
}

// AddSecret registers a literal secret value, e.g. a configured API key
// whose format no builtin pattern recognises.
func (r *Redactor) AddSecret(secret string) {
	if strings.TrimSpace(secret) == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compiledCustom = append(r.compiledCustom, regexp.MustCompile(regexp.QuoteMeta(secret)))
}

var (
	globalMu       sync.RWMutex
	globalRedactor = NewRedactor(DefaultConfig())
)

func global() *Redactor {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalRedactor
}

// Redact applies redaction using the global redactor.
func Redact(input string) string {
	return global().Redact(input)
}

// RedactFields redacts fields using the global redactor.
func RedactFields(fields map[string]any) map[string]any {
	return global().RedactFields(fields)
}

// AddSecret registers a literal secret with the global redactor.
func AddSecret(secret string) {
	global().AddSecret(secret)
}

// SetGlobalConfig sets the configuration for the global redactor.
func SetGlobalConfig(config Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalRedactor = NewRedactor(config)
}
