package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// Rate and Burst apply to endpoints without their own configuration.
	Rate            float64 // requests per second
	Burst           int
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig returns a configuration with the given default rate and the
// stricter built-in limits for the language-model endpoints. A zero rate
// disables limiting.
func NewConfig(perSecond float64, burst int) *Config {
	if burst <= 0 {
		burst = 1
	}
	return &Config{
		Enabled:         perSecond > 0,
		Rate:            perSecond,
		Burst:           burst,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model calls cost money
		{Path: "/tailor", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/analyze", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		// Rendering is CPU bound
		{Path: "/render", Method: "POST", Limit: 120, Window: time.Minute, Burst: 10},
	}
}

// ParseIPList parses a comma-separated list of IP addresses into a set.
func ParseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
