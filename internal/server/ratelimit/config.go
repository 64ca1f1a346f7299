package ratelimit

import "time"

// Rule limits one method and path. Paths ending in "/" match by prefix.
// A zero Rate means unlimited.
type Rule struct {
	Method string
	Path   string
	Rate   float64 // tokens per second
	Burst  int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// Default applies to requests that match no rule.
	Default         Rule
	Rules           []Rule
	IdleTTL         time.Duration
	CleanupInterval time.Duration
	Allowlist       map[string]bool
}

// DefaultConfig limits the analyze endpoints to analyzeRate requests per second
// per client with the given burst. Other endpoints get a lenient default and the
// health check is unlimited.
func DefaultConfig(analyzeRate float64, analyzeBurst int) *Config {
	if analyzeBurst <= 0 {
		analyzeBurst = 1
	}
	return &Config{
		Enabled: analyzeRate > 0,
		Default: Rule{Rate: 10, Burst: 20},
		Rules: []Rule{
			{Method: "GET", Path: "/health"},
			{Method: "POST", Path: "/analyze", Rate: analyzeRate, Burst: analyzeBurst},
			{Method: "POST", Path: "/analyze/stream", Rate: analyzeRate, Burst: analyzeBurst},
			{Method: "POST", Path: "/fetch", Rate: analyzeRate * 5, Burst: analyzeBurst * 2},
		},
		IdleTTL:         time.Hour,
		CleanupInterval: 5 * time.Minute,
		Allowlist:       map[string]bool{},
	}
}
