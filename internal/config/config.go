package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the operational settings of the marker subsystem: where
// files land on disk and how batch/cache behavior is bounded. Marker
// generation parameters themselves travel in models.NFTMarkerConfig.
type Config struct {
	MarkersRoot string
	CacheDir    string
	PresetsDir  string
	CacheTTL    time.Duration
	MaxWorkers  int
}

// TempDir is the scratch area for enhanced copies and previews.
func (c *Config) TempDir() string {
	return filepath.Join(c.MarkersRoot, "temp")
}

func LoadFromEnv() (*Config, error) {
	root := getEnvOrDefault("NFT_MARKERS_ROOT", "nft_markers")
	cfg := &Config{
		MarkersRoot: root,
		CacheDir:    getEnvOrDefault("NFT_CACHE_DIR", ".nft_cache"),
		PresetsDir:  getEnvOrDefault("NFT_PRESETS_DIR", "nft_presets"),
		CacheTTL:    parseDurationOrDefault("NFT_CACHE_TTL", 7*24*time.Hour),
		MaxWorkers:  int(parseIntOrDefault("NFT_MAX_WORKERS", 4)),
	}

	if cfg.MarkersRoot == "" {
		return nil, fmt.Errorf("NFT_MARKERS_ROOT must not be empty")
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("NFT_CACHE_TTL must be > 0 (got %s)", cfg.CacheTTL)
	}
	if cfg.MaxWorkers < 1 {
		return nil, fmt.Errorf("NFT_MAX_WORKERS must be >= 1 (got %d)", cfg.MaxWorkers)
	}
	return cfg, nil
}

// Default returns the settings used when no environment is consulted.
func Default() *Config {
	return &Config{
		MarkersRoot: "nft_markers",
		CacheDir:    ".nft_cache",
		PresetsDir:  "nft_presets",
		CacheTTL:    7 * 24 * time.Hour,
		MaxWorkers:  4,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
