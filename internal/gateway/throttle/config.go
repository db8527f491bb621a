package throttle

import (
	"os"
	"strconv"
	"time"
)

// EndpointConfig represents pacing configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds throttle configuration. Endpoints without a matching
// EndpointConfig are never paced.
type Config struct {
	Enabled         bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads throttle configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Enabled:         getEnvBool("STAFFPILOT_THROTTLE_ENABLED", true),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// Paths are relative to the service base URL.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// LLM-backed operations
		{Path: "/resume/upload", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/resume/chat", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/jobs/match-candidates", Method: "POST", Limit: 20, Window: time.Minute, Burst: 3},
		{Path: "/jobs/quick-match", Method: "POST", Limit: 20, Window: time.Minute, Burst: 3},

		// Outbound email
		{Path: "/resume/send-reach-out-email", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/resume/send-notification", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/resume/test-email", Method: "POST", Limit: 5, Window: time.Minute, Burst: 1},

		// Reads are not paced
	}
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
