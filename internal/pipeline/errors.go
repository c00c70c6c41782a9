package pipeline

import (
	"errors"
	"fmt"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/extraction"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/rendering"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/storage"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/structuring"
)

// Kind classifies a failed run.
type Kind string

// Failure classifications reported to clients.
const (
	KindNoFileUploaded Kind = "NoFileUploaded"
	KindExtraction     Kind = "ExtractionError"
	KindProvider       Kind = "ProviderError"
	KindSchemaParse    Kind = "SchemaParseError"
	KindRender         Kind = "RenderError"
)

// ErrNoFileUploaded is returned when the upload is missing or empty.
var ErrNoFileUploaded = errors.New("no file uploaded")

// Error is a classified run failure.
type Error struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Details returns the message shown to clients alongside the classification.
// Provider failures carry the provider's own message; other failures the
// stage error without the pipeline's wrapping.
func (e *Error) Details() string {
	var (
		providerErr *structuring.ProviderError
		extractErr  *extraction.ExtractionError
		schemaErr   *structuring.SchemaParseError
		renderErr   *rendering.RenderError
		writeErr    *storage.WriteError
	)
	switch {
	case errors.As(e.Err, &providerErr):
		return providerErr.Message
	case errors.As(e.Err, &extractErr):
		return extractErr.Error()
	case errors.As(e.Err, &schemaErr):
		return schemaErr.Error()
	case errors.As(e.Err, &renderErr):
		return renderErr.Error()
	case errors.As(e.Err, &writeErr):
		return writeErr.Error()
	}
	return e.Error()
}

// KindOf returns the classification of err, or "" if err is not a *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// classify maps an error returned by stage to a failure classification.
func classify(stage Stage, err error) *Error {
	var schemaErr *structuring.SchemaParseError
	if errors.As(err, &schemaErr) {
		return &Error{Kind: KindSchemaParse, Stage: stage, Err: err}
	}

	kind := KindRender
	if def, ok := Definition(stage); ok {
		kind = def.Failure
	}
	return &Error{Kind: kind, Stage: stage, Err: fmt.Errorf("%s failed: %w", stage, err)}
}
