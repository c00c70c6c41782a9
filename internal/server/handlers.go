package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/db"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/pipeline"
)

// multipartMemory is how much of an upload is held in memory before spilling to disk.
const multipartMemory = 8 << 20

// ImproveResponse is the body of a successful upload.
type ImproveResponse struct {
	Success        bool   `json:"success"`
	DownloadURL    string `json:"downloadUrl"`
	ImprovedResume string `json:"improvedResume"`
}

// RunsResponse lists recorded runs.
type RunsResponse struct {
	Runs  []db.Run `json:"runs"`
	Count int      `json:"count"`
}

// handleImprove accepts a multipart upload and runs the pipeline on it.
func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	if s.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	}

	upload, err := s.readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.errorResponse(w, http.StatusRequestEntityTooLarge, ErrorFileTooLarge,
				"upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			s.errorResponse(w, http.StatusBadRequest, string(pipeline.KindNoFileUploaded), pipeline.ErrNoFileUploaded.Error())
		default:
			s.errorResponse(w, http.StatusBadRequest, ErrorInvalidUpload, err.Error())
		}
		return
	}

	result, err := s.improver.Improve(r.Context(), upload)
	if err != nil {
		var pe *pipeline.Error
		if errors.As(err, &pe) {
			s.errorResponse(w, HTTPStatus(pe), string(pe.Kind), pe.Details())
			return
		}
		s.logger.Error().Err(err).Str("request_id", chimiddleware.GetReqID(r.Context())).Msg("unclassified pipeline error")
		s.errorResponse(w, http.StatusInternalServerError, ErrorInternal, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ImproveResponse{
		Success:        true,
		DownloadURL:    result.DownloadURL,
		ImprovedResume: result.ImprovedResume,
	})
}

func (s *Server) readUpload(r *http.Request) (pipeline.Upload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return pipeline.Upload{}, err
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return pipeline.Upload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return pipeline.Upload{}, err
	}
	return pipeline.Upload{Filename: header.Filename, Data: data}, nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListRuns returns the most recent runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, ErrorBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(r.Context(), db.ClampLimit(limit))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list runs")
		s.errorResponse(w, http.StatusInternalServerError, ErrorInternal, "failed to list runs")
		return
	}
	s.jsonResponse(w, http.StatusOK, RunsResponse{Runs: runs, Count: len(runs)})
}

// handleGetRun returns one run by id.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, ErrorBadRequest, "invalid run id")
		return
	}

	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrRunNotFound) {
			s.errorResponse(w, http.StatusNotFound, ErrorNotFound, "run not found")
			return
		}
		s.logger.Error().Err(err).Str("run_id", id.String()).Msg("failed to get run")
		s.errorResponse(w, http.StatusInternalServerError, ErrorInternal, "failed to get run")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, kind, details string) {
	s.jsonResponse(w, status, ErrorResponse{Error: kind, Details: details})
}
