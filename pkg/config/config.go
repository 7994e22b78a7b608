package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration values
type Config struct {
	// BackendAPIURL is the deployed Google Apps Script endpoint, e.g.
	// https://script.google.com/macros/s/YOUR_SCRIPT_ID/exec
	BackendAPIURL   string
	NotificationTTL time.Duration
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	ttl := 7 * time.Second
	if v := os.Getenv("NOTIFICATION_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Second
		}
	}

	return &Config{
		BackendAPIURL:   os.Getenv("BACKEND_API_URL"),
		NotificationTTL: ttl,
	}
}
