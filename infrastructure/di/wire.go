//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"cozyberries-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideJWTValidator,
	ProvideMetricsRegistry,
	ProvideCacheMetrics,
	ProvideRedisClient,
	ProvideCacheGateway,
	ProvideCachePolicy,
	ProvidePolicyWatcher,
	ProvideRunner,
	ProvideAccessor,
	ProvideInvalidator,
	ProvideSupabaseStore,
	ProvideCatalogStore,
	ProvideOrderStore,
	ProvideAddressStore,
	ProvideCollectionStore,
	ProvideReviewStore,
	ProvideCatalogService,
	ProvideOrderService,
	ProvideAddressService,
	ProvideCollectionService,
	ProvideReviewService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
