package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string

	// Model artifact produced by the offline trainer. Absent file means
	// the service starts untrained and answers with the heuristic branch.
	ModelPath string

	// Market listing store.
	MarketDBPath string

	// Google Maps distance resolution.
	GoogleMapsAPIKey    string
	GoogleMapsEnabled   bool
	GoogleMapsTimeout   time.Duration
	GoogleMapsCacheSize int
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	mapsTimeout, err := parseDuration("GOOGLE_MAPS_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("GOOGLE_MAPS_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	mapsEnabled := apiKey != ""
	if v := os.Getenv("GOOGLE_MAPS_ENABLED"); v != "" {
		mapsEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8001"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		AllowedOrigins:  splitCSV(envOrDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		ModelPath:    envOrDefault("MODEL_PATH", "trained_model.json"),
		MarketDBPath: envOrDefault("MARKET_DB_PATH", "market.db"),

		GoogleMapsAPIKey:    apiKey,
		GoogleMapsEnabled:   mapsEnabled,
		GoogleMapsTimeout:   mapsTimeout,
		GoogleMapsCacheSize: cacheSize,
	}

	if cfg.ModelPath == "" {
		return nil, errors.New("MODEL_PATH is required")
	}
	if cfg.MarketDBPath == "" {
		return nil, errors.New("MARKET_DB_PATH is required")
	}
	if cfg.GoogleMapsEnabled && cfg.GoogleMapsAPIKey == "" {
		return nil, errors.New("GOOGLE_MAPS_ENABLED is true but GOOGLE_MAPS_API_KEY is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
