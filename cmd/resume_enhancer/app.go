package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/config"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/db"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/extraction"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/llm"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/observability"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/pipeline"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/rendering"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/server"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/storage"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/structuring"
)

// s3Prefix is the key prefix for artifacts stored in S3.
const s3Prefix = "outputted_resumes"

type options struct {
	configPath string
	provider   string
	model      string
	outputDir  string
	logLevel   string
	logFormat  string
}

var globalOpts options

// loadConfig reads the config file and environment, then applies flags that were set.
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.LLM.Provider = opts.provider
	}
	if flags.Changed("model") {
		cfg.LLM.Model = opts.model
	}
	if flags.Changed("output-dir") {
		cfg.Storage.OutputDir = opts.outputDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: out,
	})
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	return llm.NewClient(ctx, llm.Config{
		Provider: llm.Provider(cfg.LLM.Provider),
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey(),
		BaseURL:  cfg.LLM.OpenAIBaseURL,
		Timeout:  cfg.LLM.Timeout,
	})
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Backend == "s3" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:        cfg.Storage.S3Bucket,
			Region:        cfg.Storage.AWSRegion,
			AccessKey:     cfg.Storage.AWSAccessKey,
			SecretKey:     cfg.Storage.AWSSecretKey,
			Prefix:        s3Prefix,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
	}

	local := storage.NewLocalStore(cfg.Storage.OutputDir, server.OutputRoute)
	if err := local.EnsureDir(); err != nil {
		return nil, err
	}
	return local, nil
}

// connectDB opens the run log when DATABASE_URL is set. A database that cannot
// be reached is logged and skipped.
func connectDB(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *db.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to database, continuing without run log")
		return nil
	}
	if err := database.Migrate(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to migrate database, continuing without run log")
		database.Close()
		return nil
	}
	logger.Info().Msg("connected to database")
	return database
}

// app holds everything a command needs to run the pipeline.
type app struct {
	cfg        *config.Config
	logger     zerolog.Logger
	llm        llm.Client
	structurer *structuring.Client
	store      storage.Store
	database   *db.DB
}

func newApp(ctx context.Context, cmd *cobra.Command, withDB bool) (*app, error) {
	cfg, err := loadConfig(cmd, globalOpts)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, os.Stderr)

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	store, err := newStore(ctx, cfg)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to create artifact store: %w", err)
	}

	a := &app{
		cfg:        cfg,
		logger:     logger,
		llm:        client,
		structurer: structuring.NewClient(client, logger),
		store:      store,
	}
	if withDB {
		a.database = connectDB(ctx, cfg, logger)
	}
	logger.Debug().Str("provider", cfg.LLM.Provider).Str("model", client.Model()).
		Str("storage", cfg.Storage.Backend).Msg("application configured")
	return a, nil
}

// pipeline builds a Pipeline over the app's stages.
func (a *app) pipeline(opts ...pipeline.Option) *pipeline.Pipeline {
	opts = append([]pipeline.Option{pipeline.WithLogger(a.logger)}, opts...)
	if a.database != nil {
		opts = append(opts, pipeline.WithRecorder(a.database))
	}
	return pipeline.New(extraction.New(), a.structurer, rendering.NewEngine(), a.store, opts...)
}

func (a *app) Close() {
	if a.database != nil {
		a.database.Close()
	}
	if err := a.llm.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close LLM client")
	}
}
