package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/hiring-funnel/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends in "/"
	Method string        // HTTP method
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// FromConfig builds a limiter Config from the rate_limit config section.
func FromConfig(cfg config.RateLimitConfig) *Config {
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    cfg.DefaultLimit,
		DefaultWindow:   cfg.DefaultWindow,
		CleanupInterval: cfg.CleanupInterval,
		Whitelist:       ipSet(cfg.Whitelist),
		Blacklist:       ipSet(cfg.Blacklist),
		EndpointConfigs: AnalyzeEndpointConfigs(cfg.AnalyzeLimit, cfg.AnalyzeWindow, cfg.AnalyzeBurst),
	}
}

// AnalyzeEndpointConfigs returns the strict tier applied to the analysis endpoints.
// Every other route falls back to the default limit, except the unlimited probes in MatchEndpoint.
func AnalyzeEndpointConfigs(limit int, window time.Duration, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/analyze", Method: http.MethodPost, Limit: limit, Window: window, Burst: burst},
		{Path: "/analyze/stream", Method: http.MethodPost, Limit: limit, Window: window, Burst: burst},
	}
}

// ipSet converts a list of addresses into a lookup set, skipping blanks.
func ipSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
