package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "OUTPUT_DIR", "PUBLIC_DIR", "LLM_PROVIDER", "LLM_MODEL",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "GEMINI_API_KEY", "STORAGE_BACKEND",
		"S3_BUCKET", "AWS_REGION", "AWS_ACCESS_KEY", "AWS_SECRET_KEY",
		"S3_PUBLIC_BASE_URL", "DATABASE_URL", "LOG_LEVEL", "LOG_FORMAT",
		"MAX_UPLOAD_MB", "RATE_LIMIT_PER_HOUR", "RATE_LIMIT_BURST",
	} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "outputted_resumes", cfg.Storage.OutputDir)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Model)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
server:
  port: 8080
  shutdown_timeout: 5s
llm:
  provider: gemini
  model: gemini-2.5-flash
storage:
  output_dir: /tmp/out
log:
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, "/tmp/out", cfg.Storage.OutputDir)
	assert.Equal(t, "console", cfg.Log.Format)
	// untouched keys keep defaults
	assert.Equal(t, 10, cfg.Server.MaxUploadMB)
}

func TestLoad_JSONFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"server": {"port": 9000}, "database_url": "postgres://localhost/enhancer"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/enhancer", cfg.DatabaseURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "server:\n  port: 8080\n")
	t.Setenv("PORT", "4000")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OUTPUT_DIR", "custom_out")
	t.Setenv("RATE_LIMIT_PER_HOUR", "0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey())
	assert.Equal(t, "custom_out", cfg.Storage.OutputDir)
	assert.Equal(t, 0, cfg.Server.RateLimitPerHour)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			setup:   func(t *testing.T) string { return "/nonexistent/path/config.yaml" },
			wantErr: "failed to read config file",
		},
		{
			name:    "invalid JSON",
			setup:   func(t *testing.T) string { return writeFile(t, "config.json", "{ invalid json }") },
			wantErr: "failed to parse config JSON",
		},
		{
			name:    "invalid YAML",
			setup:   func(t *testing.T) string { return writeFile(t, "config.yaml", "server: [unclosed") },
			wantErr: "failed to parse config YAML",
		},
		{
			name: "non-numeric port",
			setup: func(t *testing.T) string {
				t.Setenv("PORT", "eighty")
				return ""
			},
			wantErr: "invalid PORT",
		},
		{
			name: "unknown provider",
			setup: func(t *testing.T) string {
				t.Setenv("LLM_PROVIDER", "anthropic")
				return ""
			},
			wantErr: "Provider",
		},
		{
			name: "s3 without bucket",
			setup: func(t *testing.T) string {
				t.Setenv("STORAGE_BACKEND", "s3")
				return ""
			},
			wantErr: "S3Bucket",
		},
		{
			name: "port out of range",
			setup: func(t *testing.T) string {
				t.Setenv("PORT", "70000")
				return ""
			},
			wantErr: "Port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load(tt.setup(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLLMConfig_APIKey(t *testing.T) {
	l := LLMConfig{Provider: "gemini", OpenAIAPIKey: "sk-openai", GeminiAPIKey: "gm-key"}
	assert.Equal(t, "gm-key", l.APIKey())

	l.Provider = "openai"
	assert.Equal(t, "sk-openai", l.APIKey())
}
