package bootstrap

import (
	"context"
	"fmt"
	"time"

	"search-orchestrator/config"
	"search-orchestrator/driver"
	"search-orchestrator/gateway"
	"search-orchestrator/logger"
	"search-orchestrator/search_engine"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
)

// initMeilisearchDriver connects to Meilisearch, retrying the health probe
// with exponential backoff until config.StartupProbeTimeout elapses.
func initMeilisearchDriver(ctx context.Context, cfg config.MeilisearchConfig) (*driver.MeilisearchDriver, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("MEILISEARCH_HOST environment variable is not set")
	}

	logger.Logger.Info("Connecting to Meilisearch", "host", cfg.Host)
	httpClient := search_engine.NewHTTPClient(cfg.Timeout)
	msClient := search_engine.NewMeilisearchClient(cfg.Host, cfg.APIKey, httpClient)
	msDriver := driver.NewMeilisearchDriver(msClient, driver.Endpoint{
		Host:   cfg.Host,
		APIKey: cfg.APIKey,
		Client: httpClient,
	}, cfg.TaskPollInterval)

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		return struct{}{}, msDriver.Health(ctx)
	},
		backoff.WithBackOff(newProbeBackoff()),
		backoff.WithMaxElapsedTime(config.StartupProbeTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Logger.Warn("Meilisearch not ready, retrying", "attempt", attempt, "retry_in", next, "err", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Meilisearch after %d attempts: %w", attempt, err)
	}

	logger.Logger.Info("Connected to Meilisearch successfully")
	return msDriver, nil
}

func newProbeBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.Multiplier = 2
	return bo
}

// initResultCache selects the metasearch result cache. A configured Redis
// that cannot be reached degrades to the in-process cache.
func initResultCache(ctx context.Context, cfg config.CacheConfig) (gateway.ResultCache, func()) {
	memory := func() (gateway.ResultCache, func()) {
		logger.Logger.Info("Using in-process metasearch cache", "size", cfg.Size, "ttl", cfg.TTL)
		return driver.NewMemoryCache(cfg.Size, cfg.TTL), func() {}
	}

	if cfg.RedisURL == "" {
		return memory()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Logger.Warn("Invalid REDIS_URL, falling back to in-process cache", "err", err)
		return memory()
	}

	client := redis.NewClient(opts)
	cache := driver.NewRedisCache(client, cfg.TTL)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		logger.Logger.Warn("Redis unreachable, falling back to in-process cache", "err", err)
		_ = client.Close()
		return memory()
	}

	logger.Logger.Info("Using Redis metasearch cache", "addr", opts.Addr, "ttl", cfg.TTL)
	return cache, func() {
		if err := client.Close(); err != nil {
			logger.Logger.Error("redis close error", "err", err)
		}
	}
}

func initSearxngDriver(cfg config.SearxngConfig) *driver.SearxngDriver {
	return driver.NewSearxngDriver(driver.SearxngConfig{
		BaseURL:   cfg.URL,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
	})
}
