package structuring

import (
	"context"
	"errors"
	"testing"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/llm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	response string
	err      error

	calls   int
	prompt  string
	options llm.GenerateOptions
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	f.calls++
	f.prompt = prompt
	f.options = opts
	return f.response, f.err
}

func (f *fakeLLM) Model() string { return "fake-model" }
func (f *fakeLLM) Close() error  { return nil }

const validResume = `{
	"header": {"name": "Jane Doe", "contact": "City\nPhone: 555-0100"},
	"professionalSummary": "Backend engineer.",
	"workExperience": [
		{"jobTitle": "Engineer", "company": "Acme", "location": "Remote", "duration": "2020 - 2023", "bulletPoints": ["Cut latency 40%", "Led migration"]},
		{"jobTitle": "Intern", "company": "Initech"}
	],
	"education": [{"degree": "BSc", "institution": "State U", "graduationYear": "2019"}],
	"skills": ["SQL", "Python"],
	"certifications": null
}`

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt("Jane Doe\nEngineer at Acme")
	require.NoError(t, err)

	assert.Contains(t, prompt, "action verbs")
	assert.Contains(t, prompt, "measurable impact")
	assert.Contains(t, prompt, "ATS")
	assert.Contains(t, prompt, "accomplishments")
	assert.Contains(t, prompt, "one piece of contact information per line")
	assert.Contains(t, prompt, "never include a location")
	assert.Contains(t, prompt, `"certifications"`)
	assert.Contains(t, prompt, "Return ONLY a valid JSON object")
	assert.Contains(t, prompt, "Jane Doe\nEngineer at Acme")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a, err := BuildPrompt("same text")
	require.NoError(t, err)
	b, err := BuildPrompt("same text")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStructure_Success(t *testing.T) {
	fake := &fakeLLM{response: validResume}
	c := NewClient(fake, zerolog.Nop())

	result, err := c.Structure(context.Background(), "resume text")
	require.NoError(t, err)

	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, DefaultTemperature, fake.options.Temperature)
	assert.Equal(t, DefaultMaxTokens, fake.options.MaxTokens)
	assert.Contains(t, fake.prompt, "resume text")

	assert.Equal(t, validResume, result.Raw)
	r := result.Resume
	require.NotNil(t, r.Header)
	assert.Equal(t, "Jane Doe", r.Header.Name)
	assert.Equal(t, "City\nPhone: 555-0100", r.Header.Contact)
	require.Len(t, r.WorkExperience, 2)
	assert.Equal(t, []string{"Cut latency 40%", "Led migration"}, r.WorkExperience[0].BulletPoints)
	assert.Empty(t, r.WorkExperience[1].BulletPoints)
	assert.Equal(t, []string{"SQL", "Python"}, r.Skills)
	assert.Nil(t, r.Certifications)
}

func TestStructure_EachCallIsFresh(t *testing.T) {
	fake := &fakeLLM{response: `{}`}
	c := NewClient(fake, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := c.Structure(context.Background(), "same")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, fake.calls)
}

func TestStructure_ProviderError(t *testing.T) {
	apiErr := &llm.APIError{Provider: llm.ProviderOpenAI, StatusCode: 429, Message: "You exceeded your current quota"}
	fake := &fakeLLM{err: apiErr}

	_, err := NewClient(fake, zerolog.Nop()).Structure(context.Background(), "text")
	require.Error(t, err)

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, "You exceeded your current quota", provErr.Message)
	assert.ErrorIs(t, err, apiErr)
	assert.Equal(t, 1, fake.calls, "provider errors are not retried")
}

func TestStructure_TransportError(t *testing.T) {
	fake := &fakeLLM{err: errors.New("dial tcp: connection refused")}

	_, err := NewClient(fake, zerolog.Nop()).Structure(context.Background(), "text")

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Contains(t, provErr.Message, "connection refused")
}

func TestStructure_SchemaParseError(t *testing.T) {
	fake := &fakeLLM{response: "I'm sorry, I can't help with that."}

	_, err := NewClient(fake, zerolog.Nop()).Structure(context.Background(), "text")

	var parseErr *SchemaParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 1, fake.calls, "parse errors are not retried")
}

func TestParseResume(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "valid", raw: validResume},
		{name: "fenced", raw: "```json\n{\"skills\":[\"Go\"]}\n```"},
		{name: "empty", raw: "  ", wantErr: "empty response"},
		{name: "prose", raw: "Here you go!", wantErr: "not valid JSON"},
		{name: "truncated", raw: `{"skills": ["Go"`, wantErr: "not valid JSON"},
		{name: "array", raw: `[{"skills": []}]`, wantErr: "does not match"},
		{name: "unknown field", raw: `{"objective": "get hired"}`, wantErr: "does not match"},
		{name: "wrong type", raw: `{"workExperience": {"jobTitle": "x"}}`, wantErr: "does not match"},
		{name: "trailing prose", raw: "{\"skills\":[]}\nHope this helps!", wantErr: "after the JSON object"},
		{name: "preamble", raw: "Sure:\n{\"skills\":[]}", wantErr: "not valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume, err := ParseResume(tt.raw)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, resume)
				return
			}

			require.Error(t, err)
			assert.Nil(t, resume)
			var parseErr *SchemaParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Contains(t, parseErr.Message, tt.wantErr)
		})
	}
}
