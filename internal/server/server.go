// Package server exposes the résumé enhancer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/db"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/pipeline"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/server/middleware"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/server/ratelimit"
)

// OutputRoute is where locally stored artifacts are served.
const OutputRoute = "/outputted_resumes"

// UploadField is the multipart field carrying the résumé.
const UploadField = "resume"

// Improver runs the enhancement pipeline.
type Improver interface {
	Improve(ctx context.Context, upload pipeline.Upload) (*pipeline.Result, error)
}

// RunStore lists recorded runs.
type RunStore interface {
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (*db.Run, error)
}

// Options configures a Server.
type Options struct {
	Addr            string
	PublicDir       string // static front end; empty disables it
	OutputDir       string // local artifacts served under OutputRoute; empty disables it
	MaxUploadBytes  int64
	AllowedOrigins  []string
	RateLimit       *ratelimit.Config
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end.
type Server struct {
	opts       Options
	improver   Improver
	runs       RunStore
	limiter    *ratelimit.Limiter
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New builds the router. runs may be nil when no database is configured.
func New(improver Improver, runs RunStore, opts Options, logger zerolog.Logger) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		opts:     opts,
		improver: improver,
		runs:     runs,
		limiter:  ratelimit.NewLimiter(opts.RateLimit),
		logger:   logger,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.With(middleware.RateLimit(s.limiter, s.logger)).Post("/improve-resume", s.handleImprove)
		if s.runs != nil {
			api.Get("/runs", s.handleListRuns)
			api.Get("/runs/{id}", s.handleGetRun)
		}
	})

	if s.opts.OutputDir != "" {
		files := http.StripPrefix(OutputRoute, http.FileServer(http.Dir(s.opts.OutputDir)))
		r.Handle(OutputRoute+"/*", files)
	}
	if s.opts.PublicDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.opts.PublicDir)))
	}
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
		defer cancel()
		defer s.limiter.Stop()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info().Msg("server stopped")
	return nil
}
