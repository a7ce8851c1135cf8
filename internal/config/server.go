package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds the risk service configuration, loaded from
// environment variables.
type ServerConfig struct {
	Port     string
	LogLevel string
	// Rate limiting for the pricing endpoints
	RatePerSecond int
	RateBurst     int
	// WebSocket risk streaming
	WSEnabled        bool
	WSStreamInterval time.Duration
	// Lattice resolution used when a request does not specify one
	DefaultBinomialSteps int
}

// LoadServerConfig loads and validates the server configuration.
func LoadServerConfig() (*ServerConfig, error) {
	wsIntervalStr := getEnvOrDefault("WS_STREAM_INTERVAL", "1s")
	wsInterval, err := time.ParseDuration(wsIntervalStr)
	if err != nil {
		wsInterval = time.Second // Default to 1s on parse error
	}

	cfg := &ServerConfig{
		Port:                 getEnvOrDefault("PORT", "8080"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		RatePerSecond:        getEnvIntOrDefault("RATE_PER_SECOND", 50),
		RateBurst:            getEnvIntOrDefault("RATE_BURST", 100),
		WSEnabled:            getEnvOrDefault("WS_ENABLED", "true") == "true",
		WSStreamInterval:     wsInterval,
		DefaultBinomialSteps: getEnvIntOrDefault("DEFAULT_BINOMIAL_STEPS", 500),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT: %s", cfg.Port)
	}

	errs := &ValidationErrors{}
	validateBinomialSteps(errs, cfg.DefaultBinomialSteps)
	validateServerLimits(errs, cfg.RatePerSecond, cfg.RateBurst, cfg.WSStreamInterval)
	if errs.HasErrors() {
		return nil, errs
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
