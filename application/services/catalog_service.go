package services

import (
	"context"

	"go.uber.org/zap"

	"cozyberries-backend/application/ports"
	"cozyberries-backend/domain/catalog"
	"cozyberries-backend/infrastructure/cache"
	"cozyberries-backend/pkg/common"
)

// CatalogService serves the storefront catalog. Product listings hit the
// source-of-record directly (filters and pagination fan the keyspace out
// too far to cache); size options are read through the cache.
type CatalogService struct {
	store       ports.CatalogStore
	accessor    *cache.Accessor
	invalidator *cache.Invalidator
	logger      *zap.Logger
}

// NewCatalogService creates the catalog service.
func NewCatalogService(store ports.CatalogStore, accessor *cache.Accessor, invalidator *cache.Invalidator, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		store:       store,
		accessor:    accessor,
		invalidator: invalidator,
		logger:      logger,
	}
}

// ListProducts returns a filtered product page with the total count.
func (s *CatalogService) ListProducts(ctx context.Context, filter catalog.Filter, page common.PaginationParams) ([]catalog.Product, int, error) {
	return s.store.ListProducts(ctx, filter, page)
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// CreateProduct adds a product to the catalog (admin only at the router).
func (s *CatalogService) CreateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	return s.store.CreateProduct(ctx, product)
}

// UpdateProduct replaces a product's fields.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, product *catalog.Product) (*catalog.Product, error) {
	updated, err := s.store.UpdateProduct(ctx, id, product)
	if err != nil {
		return nil, err
	}
	// A size set or category move can shift the size options view.
	if updated.CategoryID != "" {
		s.invalidator.SizeOptionsChanged(ctx, updated.CategoryID)
	}
	return updated, nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.store.DeleteProduct(ctx, id)
}

// Suggest returns type-ahead matches for a name prefix.
func (s *CatalogService) Suggest(ctx context.Context, prefix string, limit int) ([]catalog.Suggestion, error) {
	return s.store.SearchSuggestions(ctx, prefix, limit)
}

// ListCategories returns the category tree.
func (s *CatalogService) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return s.store.ListCategories(ctx)
}

// SizeOptions returns a category's size options through the cache.
func (s *CatalogService) SizeOptions(ctx context.Context, categoryID string) (cache.Result[[]catalog.SizeOption], error) {
	return cache.Read(ctx, s.accessor, cache.TagSizeOptions, cache.SizeOptionsKey(categoryID),
		func(ctx context.Context) ([]catalog.SizeOption, error) {
			return s.store.ListSizeOptions(ctx, categoryID)
		})
}
