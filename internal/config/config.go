package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	SessionDir  string
	HTTPTimeout time.Duration
	StubAddr    string
	LogLevel    string
}

func Load() Config {
	// Missing .env is fine; environment variables always win.
	_ = godotenv.Load()

	return Config{
		APIBaseURL:  getenv("SKVT_API_BASE_URL", "http://127.0.0.1:8090"),
		SessionDir:  getenv("SKVT_SESSION_DIR", defaultSessionDir()),
		HTTPTimeout: getenvDuration("SKVT_HTTP_TIMEOUT", 15*time.Second),
		StubAddr:    getenv("SKVT_STUB_ADDR", ":8090"),
		LogLevel:    getenv("SKVT_LOG_LEVEL", "warn"),
	}
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skvt"
	}
	return filepath.Join(home, ".skvt")
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
