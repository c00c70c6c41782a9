// Package pipeline runs one résumé enhancement: extract text, structure it with
// the language model, then render and store the improved PDF.
package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/db"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/extraction"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/storage"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/structuring"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/types"
)

// recordTimeout bounds how long a run row may take to write once the request is done.
const recordTimeout = 5 * time.Second

// TextExtractor turns raw PDF bytes into text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Structurer rewrites résumé text into a StructuredResume.
type Structurer interface {
	Structure(ctx context.Context, text string) (*structuring.Result, error)
}

// Renderer lays out a StructuredResume as a PDF written to w.
type Renderer interface {
	Render(ctx context.Context, resume *types.StructuredResume, w io.Writer) error
}

// RunRecorder persists a summary of each run.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *db.Run) error
}

// Upload is one uploaded document.
type Upload struct {
	Filename string
	Data     []byte
}

// Result is a successful run.
type Result struct {
	RunID          string
	ArtifactName   string
	DownloadURL    string
	ImprovedResume string // raw JSON returned by the model
	Resume         *types.StructuredResume
	Duration       time.Duration
}

// ProgressEvent reports that a stage has started.
type ProgressEvent struct {
	RunID   string
	Stage   Stage
	Step    int
	Total   int
	Message string
}

// ProgressCallback receives progress events. It is called synchronously.
type ProgressCallback func(ProgressEvent)

// Pipeline sequences the enhancement stages. It holds no per-request state and
// is safe for concurrent use when its stages are.
type Pipeline struct {
	extractor  TextExtractor
	structurer Structurer
	renderer   Renderer
	store      storage.Store
	recorder   RunRecorder
	logger     zerolog.Logger
	now        func() time.Time
	onProgress ProgressCallback
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder records every run, successful or not.
func WithRecorder(r RunRecorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressCallback) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// WithClock overrides the time source used for durations.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline from its stages.
func New(extractor TextExtractor, structurer Structurer, renderer Renderer, store storage.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:  extractor,
		structurer: structurer,
		renderer:   renderer,
		store:      store,
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Improve runs every stage for upload. Any failure stops the run and is
// returned as a *Error; no artifact is referenced unless every stage succeeded.
func (p *Pipeline) Improve(ctx context.Context, upload Upload) (*Result, error) {
	runID := uuid.New()
	start := p.now()
	logger := p.logger.With().Str("run_id", runID.String()).Str("filename", upload.Filename).Logger()

	result, err := p.run(ctx, runID, upload, logger)
	elapsed := p.now().Sub(start)

	if err != nil {
		var pe *Error
		if !errors.As(err, &pe) {
			pe = classify(StageRender, err)
		}
		logger.Warn().Str("kind", string(pe.Kind)).Str("stage", string(pe.Stage)).
			Dur("elapsed", elapsed).Err(pe.Err).Msg("enhancement failed")
		p.record(ctx, runID, upload.Filename, nil, pe, elapsed, logger)
		return nil, pe
	}

	result.Duration = elapsed
	logger.Info().Str("artifact", result.ArtifactName).Dur("elapsed", elapsed).Msg("enhancement succeeded")
	p.record(ctx, runID, upload.Filename, result, nil, elapsed, logger)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, runID uuid.UUID, upload Upload, logger zerolog.Logger) (*Result, error) {
	if len(upload.Data) == 0 {
		return nil, &Error{Kind: KindNoFileUploaded, Err: ErrNoFileUploaded}
	}

	p.emit(runID, StageExtract)
	text, err := p.extractor.Extract(ctx, upload.Data)
	if err != nil {
		return nil, classify(StageExtract, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, classify(StageExtract, &extraction.ExtractionError{Message: "document contains no extractable text"})
	}
	logger.Debug().Int("chars", len(text)).Msg("text extracted")

	p.emit(runID, StageStructure)
	structured, err := p.structurer.Structure(ctx, text)
	if err != nil {
		return nil, classify(StageStructure, err)
	}
	logger.Debug().Int("work_entries", len(structured.Resume.WorkExperience)).Msg("résumé structured")

	p.emit(runID, StageRender)
	artifact, err := p.store.Save(ctx, upload.Filename, func(w io.Writer) error {
		return p.renderer.Render(ctx, structured.Resume, w)
	})
	if err != nil {
		return nil, classify(StageRender, err)
	}
	logger.Debug().Str("location", artifact.Location).Int64("bytes", artifact.Size).Msg("artifact stored")

	return &Result{
		RunID:          runID.String(),
		ArtifactName:   artifact.Name,
		DownloadURL:    artifact.Location,
		ImprovedResume: structured.Raw,
		Resume:         structured.Resume,
	}, nil
}

func (p *Pipeline) emit(runID uuid.UUID, stage Stage) {
	if p.onProgress == nil {
		return
	}
	def, _ := Definition(stage)
	p.onProgress(ProgressEvent{
		RunID:   runID.String(),
		Stage:   stage,
		Step:    position(stage),
		Total:   len(Stages),
		Message: def.Description,
	})
}

// record writes the run row. Failures are logged only.
func (p *Pipeline) record(ctx context.Context, runID uuid.UUID, filename string, result *Result, failure *Error, elapsed time.Duration, logger zerolog.Logger) {
	if p.recorder == nil {
		return
	}

	run := &db.Run{
		ID:               runID,
		OriginalFilename: filename,
		Status:           db.RunStatusSucceeded,
		DurationMS:       elapsed.Milliseconds(),
	}
	if result != nil {
		name := result.ArtifactName
		run.ArtifactName = &name
	}
	if failure != nil {
		kind := string(failure.Kind)
		detail := failure.Details()
		run.Status = db.RunStatusFailed
		run.ErrorKind = &kind
		run.ErrorDetail = &detail
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := p.recorder.RecordRun(recordCtx, run); err != nil {
		logger.Error().Err(err).Msg("failed to record run")
	}
}
