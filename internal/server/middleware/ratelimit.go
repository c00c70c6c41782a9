package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/server/ratelimit"
)

// RateLimitError is the classification returned with 429 responses.
const RateLimitError = "RateLimitExceeded"

// RateLimit rejects requests over the limiter's allowance with 429.
func RateLimit(limiter *ratelimit.Limiter, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := limiter.Allow(ClientID(r), r.URL.Path, r.Method)
			setRateLimitHeaders(w, info)
			if !info.Allowed {
				logger.Warn().
					Str("client", ClientID(r)).
					Int("limit", info.Limit).
					Time("reset_at", info.ResetTime).
					Msg("rate limit exceeded")
				rateLimitResponse(w, info)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientID identifies the caller by IP address. It expects chi's RealIP
// middleware to have run first.
func ClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit <= 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
}

func rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	retryAfter := int((info.RetryAfter + time.Second - 1) / time.Second)
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   RateLimitError,
		"details": "Rate limit exceeded. Please try again in " + strconv.Itoa(retryAfter) + " seconds.",
	})
}
