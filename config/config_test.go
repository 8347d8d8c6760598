package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		os.Unsetenv("PRICELENS_SERVER_PORT")
		os.Unsetenv("PRICELENS_SERVER_ENVIRONMENT")
		os.Unsetenv("PRICELENS_FEED_BASE_URL")
		os.Unsetenv("PRICELENS_FEED_API_KEY")
		os.Unsetenv("PRICELENS_FEED_REQUESTS_PER_MINUTE")
		os.Unsetenv("PRICELENS_CACHE_TYPE")
		os.Unsetenv("PRICELENS_CACHE_TTL")
		os.Unsetenv("PRICELENS_MATCHING_ENABLE_DEBUG_LOGGING")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Feed.BaseURL != "http://localhost:9090" {
			t.Errorf("Feed.BaseURL = %s, want http://localhost:9090", cfg.Feed.BaseURL)
		}
		if cfg.Feed.RequestsPerMinute != 60 {
			t.Errorf("Feed.RequestsPerMinute = %d, want 60", cfg.Feed.RequestsPerMinute)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 6*time.Hour {
			t.Errorf("Cache.TTL = %v, want 6h", cfg.Cache.TTL)
		}
		if cfg.Matching.EnableDebugLogging {
			t.Error("Matching.EnableDebugLogging = true, want false by default")
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICELENS_SERVER_PORT", "9191")
		os.Setenv("PRICELENS_SERVER_ENVIRONMENT", "production")
		os.Setenv("PRICELENS_FEED_BASE_URL", "https://feed.internal.example.com")
		os.Setenv("PRICELENS_FEED_API_KEY", "custom-api-key")
		os.Setenv("PRICELENS_FEED_REQUESTS_PER_MINUTE", "120")
		os.Setenv("PRICELENS_CACHE_TTL", "24h")
		os.Setenv("PRICELENS_MATCHING_ENABLE_DEBUG_LOGGING", "true")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9191" {
			t.Errorf("Server.Port = %s, want 9191", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Feed.BaseURL != "https://feed.internal.example.com" {
			t.Errorf("Feed.BaseURL = %s, want the custom URL", cfg.Feed.BaseURL)
		}
		if cfg.Feed.APIKey != "custom-api-key" {
			t.Errorf("Feed.APIKey = %s, want custom-api-key", cfg.Feed.APIKey)
		}
		if cfg.Feed.RequestsPerMinute != 120 {
			t.Errorf("Feed.RequestsPerMinute = %d, want 120", cfg.Feed.RequestsPerMinute)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if !cfg.Matching.EnableDebugLogging {
			t.Error("Matching.EnableDebugLogging = false, want true")
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PRICELENS_CACHE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("validates successfully with all required fields", func(t *testing.T) {
		cfg := &Config{
			Feed: FeedConfig{
				BaseURL:           "http://localhost:9090",
				RequestsPerMinute: 60,
			},
			Cache: CacheConfig{
				Type: "memory",
			},
		}

		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when feed base URL is empty", func(t *testing.T) {
		cfg := &Config{
			Feed:  FeedConfig{BaseURL: ""},
			Cache: CacheConfig{Type: "memory"},
		}

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty base URL")
		}
	})

	t.Run("fails for invalid cache type", func(t *testing.T) {
		cfg := &Config{
			Feed:  FeedConfig{BaseURL: "http://localhost:9090"},
			Cache: CacheConfig{Type: "invalid-type"},
		}

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid cache type")
		}
	})

	t.Run("accepts redis cache type", func(t *testing.T) {
		cfg := &Config{
			Feed:  FeedConfig{BaseURL: "http://localhost:9090"},
			Cache: CacheConfig{Type: "redis"},
		}

		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil for redis config", err)
		}
	})

	t.Run("fails for negative feed rate", func(t *testing.T) {
		cfg := &Config{
			Feed:  FeedConfig{BaseURL: "http://localhost:9090", RequestsPerMinute: -1},
			Cache: CacheConfig{Type: "memory"},
		}

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative rate")
		}
	})
}
