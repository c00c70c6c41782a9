package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/server"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start an HTTP server that accepts résumé uploads on POST /api/improve-resume,
serves rendered résumés from /outputted_resumes and the front end from the public directory.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT, default 3000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd.Flags().Changed("port") {
		a.cfg.Server.Port = servePort
	}

	opts := server.Options{
		Addr:            fmt.Sprintf(":%d", a.cfg.Server.Port),
		PublicDir:       a.cfg.Server.PublicDir,
		MaxUploadBytes:  a.cfg.MaxUploadBytes(),
		AllowedOrigins:  a.cfg.Server.AllowedOrigins,
		RateLimit:       ratelimit.DefaultConfig(a.cfg.Server.RateLimitPerHour, a.cfg.Server.RateLimitBurst),
		ReadTimeout:     a.cfg.Server.ReadTimeout,
		WriteTimeout:    a.cfg.Server.WriteTimeout,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
	}
	if a.cfg.Storage.Backend == "local" {
		opts.OutputDir = a.cfg.Storage.OutputDir
	}

	var runs server.RunStore
	if a.database != nil {
		runs = a.database
	}

	srv := server.New(a.pipeline(), runs, opts, a.logger)
	return srv.Run(ctx)
}
