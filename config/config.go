// Package config provides configuration for the backend.
package config

import (
	"os"
	"strconv"
	"time"
)

const envPrefix = "AGENTBOARD_"

// Config holds the backend configuration.
type Config struct {
	// Server settings
	HTTPPort int
	APIDocs  bool

	// Database
	DatabaseURL     string
	UpgradeDatabase bool

	// Session housekeeping hints
	CleanupInterval time.Duration
	SessionTimeout  time.Duration

	// Paths and defaults
	ConfigDir     string
	DefaultUserID string

	// Remote orchestrator. A non-empty URL switches the session
	// surface to the remote backend.
	OrchestratorURL string

	// Logging and telemetry
	LogFile   string
	Telemetry bool
}

// RemoteEnabled reports whether the remote orchestration backend is
// configured.
func (c *Config) RemoteEnabled() bool {
	return c.OrchestratorURL != ""
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 8081),
		APIDocs:         getEnvBool("API_DOCS", false),
		DatabaseURL:     getEnv("DATABASE_URL", "file:agentboard.db?cache=shared&mode=rwc"),
		UpgradeDatabase: getEnvBool("UPGRADE_DATABASE", false),
		CleanupInterval: time.Duration(getEnvInt("CLEANUP_INTERVAL", 300)) * time.Second,
		SessionTimeout:  time.Duration(getEnvInt("SESSION_TIMEOUT", 3600*100)) * time.Second,
		ConfigDir:       getEnv("CONFIG_DIR", "configs"),
		DefaultUserID:   getEnv("DEFAULT_USER_ID", "guestuser@gmail.com"),
		OrchestratorURL: getEnv("ORCHESTRATOR_URL", ""),
		LogFile:         getEnv("LOG_FILE", ""),
		Telemetry:       getEnvBool("TELEMETRY", false),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(envPrefix + key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(envPrefix + key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
