package di

import (
	"time"

	"cozyberries-backend/application/ports"
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

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideJWTValidator builds the token validator for the auth middleware
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideMetricsRegistry creates the process-wide Prometheus registry
func ProvideMetricsRegistry(cfg *config.Config) *prometheus.Registry {
	if !cfg.EnableMetrics {
		return nil
	}
	return prometheus.NewRegistry()
}

// ProvideCacheMetrics registers the cache counters. A nil registry yields
// nil metrics; every Metrics method tolerates that.
func ProvideCacheMetrics(registry *prometheus.Registry) *cache.Metrics {
	if registry == nil {
		return nil
	}
	return cache.NewMetrics(registry)
}

// ProvideRedisClient connects to the cache store. When caching is disabled
// the service runs straight against the source-of-record.
func ProvideRedisClient(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	if !cfg.CacheEnabled {
		return nil, nil
	}
	client, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		if cfg.CacheFallback {
			logger.Warn("Cache store unavailable, continuing without cache", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

// ProvideCacheGateway wraps the Redis client; nil client means a no-op
// gateway where every read is a miss.
func ProvideCacheGateway(client *redis.Client, logger *zap.Logger, metrics *cache.Metrics) cache.Gateway {
	if client == nil {
		return cache.NewNoopGateway()
	}
	return cache.NewRedisGateway(client, logger, metrics)
}

// ProvideCachePolicy builds the staleness-window table, applying the
// optional policy file on top of the defaults.
func ProvideCachePolicy(cfg *config.Config, logger *zap.Logger) *config.CachePolicy {
	policy := config.NewCachePolicy()
	if cfg.CachePolicy == "" {
		return policy
	}
	overrides, err := config.LoadPolicyFile(cfg.CachePolicy)
	if err != nil {
		logger.Warn("Cache policy file ignored", zap.String("path", cfg.CachePolicy), zap.Error(err))
		return policy
	}
	policy.Apply(overrides)
	return policy
}

// ProvidePolicyWatcher hot-reloads the policy file; nil when no file is
// configured.
func ProvidePolicyWatcher(cfg *config.Config, policy *config.CachePolicy, logger *zap.Logger) (*config.PolicyWatcher, error) {
	if cfg.CachePolicy == "" {
		return nil, nil
	}
	watcher, err := config.NewPolicyWatcher(cfg.CachePolicy, policy, logger)
	if err != nil {
		logger.Warn("Cache policy watcher disabled", zap.Error(err))
		return nil, nil
	}
	watcher.Start()
	return watcher, nil
}

// ProvideRunner creates the background worker for refreshes and populates
func ProvideRunner(logger *zap.Logger) *async.Runner {
	return async.NewRunner(logger, 16, 30*time.Second)
}

// ProvideAccessor creates the read-through cache accessor
func ProvideAccessor(
	gateway cache.Gateway,
	policy *config.CachePolicy,
	runner *async.Runner,
	logger *zap.Logger,
	metrics *cache.Metrics,
) *cache.Accessor {
	return cache.NewAccessor(gateway, policy, runner, logger, metrics)
}

// ProvideInvalidator creates the write-path invalidator
func ProvideInvalidator(gateway cache.Gateway, logger *zap.Logger, metrics *cache.Metrics) *cache.Invalidator {
	return cache.NewInvalidator(gateway, logger, metrics)
}

// ProvideSupabaseStore connects to the source-of-record
func ProvideSupabaseStore(cfg *config.Config, logger *zap.Logger) (*supabase.Store, error) {
	return supabase.NewStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, logger)
}

// ProvideCatalogStore exposes the store through its catalog port
func ProvideCatalogStore(store *supabase.Store) ports.CatalogStore { return store }

// ProvideOrderStore exposes the store through its order port
func ProvideOrderStore(store *supabase.Store) ports.OrderStore { return store }

// ProvideAddressStore exposes the store through its address port
func ProvideAddressStore(store *supabase.Store) ports.AddressStore { return store }

// ProvideCollectionStore exposes the store through its collection port
func ProvideCollectionStore(store *supabase.Store) ports.CollectionStore { return store }

// ProvideReviewStore exposes the store through its review port
func ProvideReviewStore(store *supabase.Store) ports.ReviewStore { return store }

// ProvideCatalogService creates the catalog service
func ProvideCatalogService(
	store ports.CatalogStore,
	accessor *cache.Accessor,
	invalidator *cache.Invalidator,
	logger *zap.Logger,
) *services.CatalogService {
	return services.NewCatalogService(store, accessor, invalidator, logger)
}

// ProvideOrderService creates the order service
func ProvideOrderService(
	store ports.OrderStore,
	catalog ports.CatalogStore,
	accessor *cache.Accessor,
	invalidator *cache.Invalidator,
	cfg *config.Config,
	logger *zap.Logger,
) *services.OrderService {
	return services.NewOrderService(store, catalog, accessor, invalidator, logger, cfg.FreeShippingAbove, cfg.ShippingFee)
}

// ProvideAddressService creates the address service
func ProvideAddressService(
	store ports.AddressStore,
	accessor *cache.Accessor,
	invalidator *cache.Invalidator,
) *services.AddressService {
	return services.NewAddressService(store, accessor, invalidator)
}

// ProvideCollectionService creates the cart/wishlist service
func ProvideCollectionService(
	store ports.CollectionStore,
	accessor *cache.Accessor,
	invalidator *cache.Invalidator,
) *services.CollectionService {
	return services.NewCollectionService(store, accessor, invalidator)
}

// ProvideReviewService creates the review service
func ProvideReviewService(
	store ports.ReviewStore,
	catalog ports.CatalogStore,
	accessor *cache.Accessor,
	invalidator *cache.Invalidator,
) *services.ReviewService {
	return services.NewReviewService(store, catalog, accessor, invalidator)
}
