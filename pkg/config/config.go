package config

import (
	"os"
	"time"
)

// Storage backends selectable via STORAGE_BACKEND.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

// AppConfig general application configurations
type AppConfig struct {
	// Storage
	StorageBackend string

	// Rate Limiting
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	// Response Cache
	CacheEnabled bool
	CacheConfigs map[string]ResponseCacheConfig

	// HTTPS Enforcement
	EnforceHTTPS bool

	// Environment
	Environment string
}

// RateLimitConfig configuration for rate limiting
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// ResponseCacheConfig configuration for response cache
type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		StorageBackend:   StorageSQLite,
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"/tasks": {
				Requests: 60,
				Window:   time.Minute,
			},
			"/checklist": {
				Requests: 120,
				Window:   time.Minute,
			},
		},
		CacheEnabled: true,
		CacheConfigs: map[string]ResponseCacheConfig{
			"/checklist": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
		},
		EnforceHTTPS: false,
		Environment:  "development",
	}
}

// LoadFromEnv applies environment overrides on top of the defaults.
func LoadFromEnv() *AppConfig {
	cfg := GetDefaultConfig()

	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		cfg.StorageBackend = backend
	}

	if os.Getenv("GIN_MODE") == "release" {
		cfg.Environment = "production"
		cfg.EnforceHTTPS = true
	}

	if os.Getenv("ENFORCE_HTTPS") == "true" {
		cfg.EnforceHTTPS = true
	}

	return cfg
}
