package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ResumeRewrite(t *testing.T) {
	clearCache()

	prompt, err := Get("improve.json", "resume_rewrite")
	require.NoError(t, err)
	assert.Contains(t, prompt, "action verbs")
	assert.Contains(t, prompt, "Applicant Tracking Systems")
	assert.Contains(t, prompt, "Return ONLY a valid JSON object")
	assert.Contains(t, prompt, `"graduationYear": string`)
	assert.Contains(t, prompt, "{{.ResumeText}}")
}

func TestGet_InvalidFile(t *testing.T) {
	clearCache()

	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	clearCache()

	_, err := Get("improve.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "substitutes placeholders",
			template: "Hello {{.Name}}, welcome to {{.Company}}!",
			data:     map[string]string{"Name": "Alice", "Company": "Acme Corp"},
			want:     "Hello Alice, welcome to Acme Corp!",
		},
		{
			name:     "no placeholders",
			template: "No placeholders here",
			data:     map[string]string{"Key": "Value"},
			want:     "No placeholders here",
		},
		{
			name:     "missing data leaves placeholder",
			template: "Hello {{.Name}}",
			data:     map[string]string{},
			want:     "Hello {{.Name}}",
		},
		{
			name:     "values are not re-expanded",
			template: "A={{.A}} B={{.B}}",
			data:     map[string]string{"A": "{{.B}}", "B": "b"},
			want:     "A={{.B}} B=b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestRender(t *testing.T) {
	clearCache()

	prompt, err := Render("improve.json", "resume_rewrite", map[string]string{"ResumeText": "Jane Doe\nEngineer"})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "{{.ResumeText}}")
	assert.Contains(t, prompt, "RESUME:\nJane Doe\nEngineer")
}

func TestCaching(t *testing.T) {
	clearCache()

	prompt1, err := Get("improve.json", "resume_rewrite")
	require.NoError(t, err)

	prompt2, err := Get("improve.json", "resume_rewrite")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
