// Package bootstrap establishes process-wide runtime dependencies.
package bootstrap

import (
	"context"
	"fmt"

	"chronicle/internal/cache"
	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds the shared process dependencies established at startup.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	shutdownTracing func(context.Context) error
}

// InitRuntime connects to the database and Redis and initializes
// tracing. Redis being unreachable is not fatal; the cache layer fails
// open.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "chronicle",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TraceExporter != "",
		Exporter:       cfg.TraceExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   1.0,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing initialization failed: %w", err)
	}

	return &Runtime{
		DB:              db,
		Redis:           cache.GetClient(),
		shutdownTracing: shutdownTracing,
	}, nil
}

// Shutdown releases runtime resources in reverse order of acquisition.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r.shutdownTracing != nil {
		if err := r.shutdownTracing(ctx); err != nil {
			return fmt.Errorf("tracing shutdown failed: %w", err)
		}
	}
	return nil
}
