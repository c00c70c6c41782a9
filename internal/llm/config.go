// Package llm provides the provider-neutral language model client used to structure résumés.
// OpenAI chat completions and Google Gemini are supported.
package llm

import (
	"net/http"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI chat completions API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultOpenAIBaseURL is the public OpenAI API root.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 90 * time.Second

var defaultModels = map[Provider]string{
	ProviderOpenAI: "gpt-3.5-turbo",
	ProviderGemini: "gemini-2.5-flash",
}

// Config holds the settings needed to build a Client
type Config struct {
	Provider Provider
	Model    string // empty selects DefaultModel(Provider)
	APIKey   string
	BaseURL  string // OpenAI only; empty selects DefaultOpenAIBaseURL
	Timeout  time.Duration

	// HTTPClient overrides the transport for the OpenAI client. Tests point it at httptest servers.
	HTTPClient *http.Client
}

// DefaultModel returns the model used when none is configured for a provider.
func DefaultModel(p Provider) string {
	return defaultModels[p]
}

// withDefaults returns a copy with empty fields filled in.
func (c Config) withDefaults() Config {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		c.Model = DefaultModel(c.Provider)
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultOpenAIBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
