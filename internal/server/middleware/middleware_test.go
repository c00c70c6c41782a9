package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/server/ratelimit"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("done"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var ctxLoggerSet bool
	handler := chimiddleware.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLoggerSet = zerolog.Ctx(r.Context()).GetLevel() != zerolog.Disabled
		okHandler(w, r)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, ctxLoggerSet)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request completed", line["message"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/health", line["path"])
	assert.Equal(t, float64(http.StatusCreated), line["status"])
	assert.Equal(t, float64(4), line["bytes"])
	assert.NotEmpty(t, line["request_id"])
}

func TestRequestLogger_ErrorLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusBadRequest, "warn"},
		{http.StatusBadGateway, "error"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		handler := RequestLogger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/improve-resume", nil))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, tt.level, line["level"], "status %d", tt.status)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig(10, 1))
	defer limiter.Stop()
	handler := RateLimit(limiter, zerolog.Nop())(http.HandlerFunc(okHandler))

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, ratelimit.ImprovePath, nil)
		req.RemoteAddr = "203.0.113.9:5555"
		return req
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newReq())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, newReq())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, RateLimitError, body["error"])
	assert.Contains(t, body["details"], "Rate limit exceeded")
}

func TestClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	assert.Equal(t, "198.51.100.7", ClientID(req))

	req.RemoteAddr = "198.51.100.7"
	assert.Equal(t, "198.51.100.7", ClientID(req))
}
