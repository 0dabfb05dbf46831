package di

import (
	"context"

	"cozyberries-backend/application/services"
	"cozyberries-backend/infrastructure/cache"
	"cozyberries-backend/infrastructure/config"
	"cozyberries-backend/infrastructure/persistence/supabase"
	"cozyberries-backend/pkg/async"
	"cozyberries-backend/pkg/auth"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Validator     *auth.JWTValidator
	Registry      *prometheus.Registry
	CacheMetrics  *cache.Metrics
	RedisClient   *redis.Client
	Gateway       cache.Gateway
	Policy        *config.CachePolicy
	PolicyWatcher *config.PolicyWatcher
	Runner        *async.Runner
	Accessor      *cache.Accessor
	Invalidator   *cache.Invalidator
	Store         *supabase.Store

	CatalogService    *services.CatalogService
	OrderService      *services.OrderService
	AddressService    *services.AddressService
	CollectionService *services.CollectionService
	ReviewService     *services.ReviewService
}

// Shutdown releases everything the container owns: pending background work
// is drained, the policy watcher stops, and connections close.
func (c *Container) Shutdown(ctx context.Context) {
	if c.PolicyWatcher != nil {
		c.PolicyWatcher.Stop()
	}
	if c.Runner != nil {
		if err := c.Runner.Close(ctx); err != nil {
			c.Logger.Warn("Background runner did not drain cleanly", zap.Error(err))
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("Redis client close failed", zap.Error(err))
		}
	}
}
