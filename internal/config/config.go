package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	APIBaseURL          string        // Base URL of the wallet backend
	HTTPTimeout         time.Duration // Timeout for a single backend request
	SessionBackend      string        // Session store backend: "file" or "redis"
	SessionFile         string        // Path of the file-backed session record (empty = default location)
	RedisAddr           string        // Redis server address
	RedisPass           string        // Redis password
	RedisDB             int           // Redis database number
	UpdateRedirectDelay time.Duration // Delay before leaving the profile form after a successful update
	IsProd              bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		APIBaseURL:          os.Getenv("WALLET_API_BASE_URL"),                                     // Wallet backend base URL
		HTTPTimeout:         secondsOr("HTTP_TIMEOUT_SECONDS", 10*time.Second),                    // Request timeout
		SessionBackend:      stringOr("SESSION_BACKEND", "file"),                                  // Session store backend
		SessionFile:         os.Getenv("SESSION_FILE"),                                            // Session file path
		RedisAddr:           os.Getenv("REDIS_ADDR"),                                              // Redis server address
		RedisPass:           os.Getenv("REDIS_PASS"),                                              // Redis password
		RedisDB:             redisDB,                                                              // Redis database number
		UpdateRedirectDelay: millisOr("UPDATE_REDIRECT_DELAY_MS", time.Second),                    // Profile form redirect delay
		IsProd:              os.Getenv("IS_PROD") == "true",                                       // Is production environment
	}
}

// stringOr returns the env value or a fallback when unset
func stringOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// secondsOr parses an env value as a second count, falling back when unset or invalid
func secondsOr(key string, fallback time.Duration) time.Duration {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return time.Duration(v) * time.Second
	}
	return fallback
}

// millisOr parses an env value as a millisecond count, falling back when unset or invalid
func millisOr(key string, fallback time.Duration) time.Duration {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return time.Duration(v) * time.Millisecond
	}
	return fallback
}
