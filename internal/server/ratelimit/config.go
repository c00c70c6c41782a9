package ratelimit

import "time"

// ImprovePath is the upload endpoint limited by DefaultConfig.
const ImprovePath = "/api/improve-resume"

// DefaultIdleTTL is how long an unused bucket is kept.
const DefaultIdleTTL = time.Hour

// Rule limits requests matching Method and Path.
type Rule struct {
	Method string
	Path   string        // a trailing "/" matches every path below it
	Limit  int           // requests per Window
	Window time.Duration
	Burst  int // defaults to Limit when 0
}

func (r *Rule) burst() int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}

// Config holds the limiter settings.
type Config struct {
	Enabled         bool
	Rules           []Rule
	CleanupInterval time.Duration
	IdleTTL         time.Duration
}

func (c *Config) idleTTL() time.Duration {
	if c.IdleTTL > 0 {
		return c.IdleTTL
	}
	return DefaultIdleTTL
}

// DefaultConfig limits résumé uploads to perHour per client with the given
// burst. A non-positive perHour disables limiting.
func DefaultConfig(perHour, burst int) *Config {
	if perHour <= 0 {
		return &Config{}
	}
	return &Config{
		Enabled:         true,
		CleanupInterval: 5 * time.Minute,
		Rules: []Rule{
			{Method: "POST", Path: ImprovePath, Limit: perHour, Window: time.Hour, Burst: burst},
		},
	}
}
