package server

import (
	"errors"
	"net/http"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/pipeline"
)

// Error classifications produced by the server itself.
const (
	ErrorFileTooLarge  = "FileTooLarge"
	ErrorInvalidUpload = "InvalidUpload"
	ErrorBadRequest    = "BadRequest"
	ErrorNotFound      = "NotFound"
	ErrorInternal      = "InternalError"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HTTPStatus returns the status code for a pipeline failure.
func HTTPStatus(err error) int {
	var pe *pipeline.Error
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}
	return statusForKind(pe.Kind)
}

func statusForKind(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindNoFileUploaded:
		return http.StatusBadRequest
	case pipeline.KindExtraction:
		return http.StatusUnprocessableEntity
	case pipeline.KindProvider, pipeline.KindSchemaParse:
		return http.StatusBadGateway
	case pipeline.KindRender:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
