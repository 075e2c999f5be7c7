package config

import (
	"os"
	"strconv"
	"time"
)

// Service constants with env var override support.
var (
	ShutdownTimeout     = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	StartupProbeTimeout = durationEnv("MEILI_STARTUP_TIMEOUT", 60*time.Second)
	ImportReadBackLimit = intEnv("IMPORT_READBACK_CONCURRENCY", 8)
	IndexSetupTimeout   = durationEnv("INDEX_SETUP_TIMEOUT", 30*time.Second)
	RequestBodyLimit    = stringEnv("HTTP_BODY_LIMIT", "1M")
)

func stringEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func intEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func durationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
