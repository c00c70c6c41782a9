// Package structuring turns extracted résumé text into a validated StructuredResume
// by way of a single language model call.
package structuring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/llm"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/prompts"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/schemas"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/types"
	"github.com/rs/zerolog"
)

const (
	// DefaultTemperature is the sampling temperature for the rewrite request.
	DefaultTemperature float32 = 0.7
	// DefaultMaxTokens bounds the length of the model's response.
	DefaultMaxTokens = 2000

	promptFile = "improve.json"
	promptKey  = "resume_rewrite"
)

// ProviderError reports a failed call to the language model provider.
// Message carries the provider's own description when one was returned.
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// SchemaParseError reports a model response that is not a valid StructuredResume.
type SchemaParseError struct {
	Message string
	Cause   error
}

func (e *SchemaParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("schema parse error: %s", e.Message)
}

func (e *SchemaParseError) Unwrap() error {
	return e.Cause
}

// Result is the outcome of one structuring call.
type Result struct {
	Resume *types.StructuredResume
	// Raw is the JSON text the model returned, after fence stripping.
	Raw string
}

// Client structures résumé text with a language model.
type Client struct {
	llm    llm.Client
	opts   llm.GenerateOptions
	logger zerolog.Logger
}

// NewClient wraps an llm.Client with the fixed rewrite prompt and generation bounds.
func NewClient(client llm.Client, logger zerolog.Logger) *Client {
	return &Client{
		llm:    client,
		opts:   llm.GenerateOptions{Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens},
		logger: logger,
	}
}

// BuildPrompt embeds the extracted text into the rewrite prompt.
func BuildPrompt(text string) (string, error) {
	return prompts.Render(promptFile, promptKey, map[string]string{"ResumeText": text})
}

// Structure sends text to the model once and parses the reply. Provider failures
// return *ProviderError and unusable replies return *SchemaParseError. Nothing is retried.
func (c *Client) Structure(ctx context.Context, text string) (*Result, error) {
	prompt, err := BuildPrompt(text)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	start := time.Now()
	raw, err := c.llm.GenerateJSON(ctx, prompt, c.opts)
	if err != nil {
		c.logger.Error().Err(err).Str("model", c.llm.Model()).
			Int64("elapsed_ms", time.Since(start).Milliseconds()).
			Msg("llm request failed")
		return nil, &ProviderError{Message: providerMessage(err), Cause: err}
	}

	c.logger.Debug().Str("model", c.llm.Model()).
		Int("response_bytes", len(raw)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("llm response received")

	resume, err := ParseResume(raw)
	if err != nil {
		c.logger.Warn().Err(err).Int("response_bytes", len(raw)).Msg("llm response rejected")
		return nil, err
	}
	return &Result{Resume: resume, Raw: raw}, nil
}

func providerMessage(err error) string {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// ParseResume validates raw against the résumé schema and decodes it.
// Unknown fields are rejected at every level.
func ParseResume(raw string) (*types.StructuredResume, error) {
	raw = llm.CleanJSONBlock(raw)
	if raw == "" {
		return nil, &SchemaParseError{Message: "empty response"}
	}

	if err := schemas.ValidateResumeJSON(raw); err != nil {
		var loadErr *schemas.SchemaLoadError
		if errors.As(err, &loadErr) {
			return nil, &SchemaParseError{Message: "response is not valid JSON", Cause: loadErr.Cause}
		}
		return nil, &SchemaParseError{Message: "response does not match the resume schema", Cause: err}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var resume types.StructuredResume
	if err := dec.Decode(&resume); err != nil {
		return nil, &SchemaParseError{Message: "cannot decode response", Cause: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &SchemaParseError{Message: "unexpected text after the JSON object"}
	}
	return &resume, nil
}
