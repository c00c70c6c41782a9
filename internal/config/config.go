// Package config loads and validates runtime configuration for the enhancer.
// Values come from built-in defaults, an optional YAML or JSON file, then environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the server and CLI.
type Config struct {
	Server      ServerConfig  `yaml:"server" json:"server"`
	LLM         LLMConfig     `yaml:"llm" json:"llm"`
	Storage     StorageConfig `yaml:"storage" json:"storage"`
	Log         LogConfig     `yaml:"log" json:"log"`
	DatabaseURL string        `yaml:"database_url" json:"database_url,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port             int           `yaml:"port" json:"port" validate:"min=1,max=65535"`
	PublicDir        string        `yaml:"public_dir" json:"public_dir"`
	MaxUploadMB      int           `yaml:"max_upload_mb" json:"max_upload_mb" validate:"min=1,max=512"`
	RateLimitPerHour int           `yaml:"rate_limit_per_hour" json:"rate_limit_per_hour" validate:"min=0"`
	RateLimitBurst   int           `yaml:"rate_limit_burst" json:"rate_limit_burst" validate:"min=0"`
	ReadTimeout      time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	AllowedOrigins   []string      `yaml:"allowed_origins" json:"allowed_origins"`
}

// LLMConfig selects and configures the language model provider.
type LLMConfig struct {
	Provider      string        `yaml:"provider" json:"provider" validate:"oneof=openai gemini"`
	Model         string        `yaml:"model" json:"model"` // empty selects the provider default
	OpenAIAPIKey  string        `yaml:"openai_api_key" json:"openai_api_key,omitempty"`
	OpenAIBaseURL string        `yaml:"openai_base_url" json:"openai_base_url" validate:"omitempty,url"`
	GeminiAPIKey  string        `yaml:"gemini_api_key" json:"gemini_api_key,omitempty"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
}

// StorageConfig selects where rendered résumés are written.
type StorageConfig struct {
	Backend       string `yaml:"backend" json:"backend" validate:"oneof=local s3"`
	OutputDir     string `yaml:"output_dir" json:"output_dir" validate:"required"`
	S3Bucket      string `yaml:"s3_bucket" json:"s3_bucket" validate:"required_if=Backend s3"`
	AWSRegion     string `yaml:"aws_region" json:"aws_region"`
	AWSAccessKey  string `yaml:"aws_access_key" json:"aws_access_key,omitempty"`
	AWSSecretKey  string `yaml:"aws_secret_key" json:"aws_secret_key,omitempty"`
	PublicBaseURL string `yaml:"public_base_url" json:"public_base_url" validate:"omitempty,url"`
}

// LogConfig controls the zerolog logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" json:"format" validate:"oneof=json console"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             3000,
			PublicDir:        "public",
			MaxUploadMB:      10,
			RateLimitPerHour: 30,
			RateLimitBurst:   5,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			ShutdownTimeout:  10 * time.Second,
			AllowedOrigins:   []string{"*"},
		},
		LLM: LLMConfig{
			Provider: "openai",
			Timeout:  90 * time.Second,
		},
		Storage: StorageConfig{
			Backend:   "local",
			OutputDir: "outputted_resumes",
			AWSRegion: "us-east-1",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config from defaults, the optional file at path and the environment.
// Files ending in .json are parsed as JSON; anything else as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config JSON: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// MaxUploadBytes is the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// APIKey returns the credential for the selected provider.
func (l LLMConfig) APIKey() string {
	if l.Provider == "gemini" {
		return l.GeminiAPIKey
	}
	return l.OpenAIAPIKey
}

func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"PORT", &cfg.Server.Port},
		{"MAX_UPLOAD_MB", &cfg.Server.MaxUploadMB},
		{"RATE_LIMIT_PER_HOUR", &cfg.Server.RateLimitPerHour},
		{"RATE_LIMIT_BURST", &cfg.Server.RateLimitBurst},
	}
	for _, v := range ints {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", v.name, raw, err)
		}
		*v.dst = n
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"PUBLIC_DIR", &cfg.Server.PublicDir},
		{"LLM_PROVIDER", &cfg.LLM.Provider},
		{"LLM_MODEL", &cfg.LLM.Model},
		{"OPENAI_API_KEY", &cfg.LLM.OpenAIAPIKey},
		{"OPENAI_BASE_URL", &cfg.LLM.OpenAIBaseURL},
		{"GEMINI_API_KEY", &cfg.LLM.GeminiAPIKey},
		{"STORAGE_BACKEND", &cfg.Storage.Backend},
		{"OUTPUT_DIR", &cfg.Storage.OutputDir},
		{"S3_BUCKET", &cfg.Storage.S3Bucket},
		{"AWS_REGION", &cfg.Storage.AWSRegion},
		{"AWS_ACCESS_KEY", &cfg.Storage.AWSAccessKey},
		{"AWS_SECRET_KEY", &cfg.Storage.AWSSecretKey},
		{"S3_PUBLIC_BASE_URL", &cfg.Storage.PublicBaseURL},
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
	}
	for _, v := range strs {
		if raw := os.Getenv(v.name); raw != "" {
			*v.dst = raw
		}
	}
	return nil
}
