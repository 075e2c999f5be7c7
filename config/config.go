package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Meilisearch MeilisearchConfig
	Searxng     SearxngConfig
	Cache       CacheConfig
	HTTP        HTTPConfig
	Auth        AuthConfig
	Seed        SeedConfig
}

type MeilisearchConfig struct {
	Host             string
	APIKey           string
	Timeout          time.Duration
	TaskPollInterval time.Duration
}

type SearxngConfig struct {
	URL     string
	Timeout time.Duration
	// RateLimit is requests per second.
	RateLimit float64
	Burst     int
}

type CacheConfig struct {
	// RedisURL selects the Redis backend; empty means an in-process LRU.
	RedisURL string
	TTL      time.Duration
	Size     int
}

type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
}

type AuthConfig struct {
	// AdminTokenSecret guards the document write routes. Empty disables them.
	AdminTokenSecret string
	AdminTokenIssuer string
}

type SeedConfig struct {
	MoviesFile string
	BooksFile  string
}

// Load reads the configuration from the environment. Malformed numbers and
// durations are reported together.
func Load() (*Config, error) {
	p := &parser{}

	cfg := &Config{
		Meilisearch: MeilisearchConfig{
			Host:             getEnvOrDefault("MEILISEARCH_HOST", "http://localhost:7700"),
			APIKey:           getEnvOrDefault("MEILISEARCH_API_KEY", "masterKey"),
			Timeout:          p.duration("MEILI_TIMEOUT", 15*time.Second),
			TaskPollInterval: p.duration("MEILI_TASK_POLL_INTERVAL", 50*time.Millisecond),
		},
		Searxng: SearxngConfig{
			URL:       getEnvOrDefault("SEARXNG_URL", "http://searxng:8080"),
			Timeout:   p.duration("SEARXNG_TIMEOUT", 10*time.Second),
			RateLimit: p.float("SEARXNG_RATE_LIMIT", 2),
			Burst:     p.int("SEARXNG_BURST", 4),
		},
		Cache: CacheConfig{
			RedisURL: getEnvOrDefault("REDIS_URL", ""),
			TTL:      p.duration("METASEARCH_CACHE_TTL", 10*time.Minute),
			Size:     p.int("METASEARCH_CACHE_SIZE", 256),
		},
		HTTP: HTTPConfig{
			Addr:              getEnvOrDefault("HTTP_ADDR", ":9300"),
			ReadHeaderTimeout: p.duration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			AdminTokenSecret: getEnvOrDefault("ADMIN_TOKEN_SECRET", ""),
			AdminTokenIssuer: getEnvOrDefault("ADMIN_TOKEN_ISSUER", "search-orchestrator"),
		},
		Seed: SeedConfig{
			MoviesFile: getEnvOrDefault("SEED_MOVIES_FILE", ""),
			BooksFile:  getEnvOrDefault("SEED_BOOKS_FILE", ""),
		},
	}

	if len(p.errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(p.errs, "; "))
	}

	slog.Info("Configuration loaded",
		"meilisearch_host", cfg.Meilisearch.Host,
		"searxng_url", cfg.Searxng.URL,
		"redis_cache", cfg.Cache.RedisURL != "",
		"http_addr", cfg.HTTP.Addr,
		"admin_routes", cfg.Auth.AdminTokenSecret != "",
	)

	return cfg, nil
}

type parser struct {
	errs []string
}

func (p *parser) duration(key string, defaultValue time.Duration) time.Duration {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		p.errs = append(p.errs, fmt.Sprintf("%s: invalid duration %q", key, v))
		return defaultValue
	}
	return d
}

func (p *parser) int(key string, defaultValue int) int {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		p.errs = append(p.errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		return defaultValue
	}
	return i
}

func (p *parser) float(key string, defaultValue float64) float64 {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		p.errs = append(p.errs, fmt.Sprintf("%s: invalid number %q", key, v))
		return defaultValue
	}
	return f
}

func getEnvOrDefault(key, defaultValue string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
