package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// statusPattern matches the status line langchaingo puts on non-2xx responses,
// optionally followed by the provider's error.message.
var statusPattern = regexp.MustCompile(`status code: (\d{3})(?::\s*(.*))?`)

// OpenAIClient implements Client over the OpenAI chat completions endpoint.
type OpenAIClient struct {
	llm   *openai.LLM
	model string
}

// NewOpenAIClient creates a new OpenAI chat completions client
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	cfg = cfg.withDefaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	model, err := openai.New(
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")),
		openai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &OpenAIClient{llm: model, model: cfg.Model}, nil
}

// GenerateJSON sends one user message and returns the first choice's content.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	callOpts := []llms.CallOption{llms.WithTemperature(float64(opts.Temperature))}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}

	resp, err := c.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, callOpts...)
	if err != nil {
		return "", openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &APIError{Provider: ProviderOpenAI, Message: "no choices in response"}
	}

	return CleanJSONBlock(resp.Choices[0].Content), nil
}

// openAIError converts a langchaingo failure into an APIError carrying the
// HTTP status and the provider's own message when the response had one.
func openAIError(err error) *APIError {
	apiErr := &APIError{Provider: ProviderOpenAI, Message: err.Error(), Cause: err}
	if errors.Is(err, openai.ErrEmptyResponse) || strings.Contains(err.Error(), "empty response") {
		apiErr.Message = "no choices in response"
		return apiErr
	}

	m := statusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return apiErr
	}
	apiErr.StatusCode, _ = strconv.Atoi(m[1])
	if msg := strings.TrimSpace(m[2]); msg != "" {
		apiErr.Message = msg
	}
	return apiErr
}

// Model returns the OpenAI model name
func (c *OpenAIClient) Model() string {
	return c.model
}

// Close is a no-op; the HTTP client holds no dedicated resources.
func (c *OpenAIClient) Close() error {
	return nil
}
