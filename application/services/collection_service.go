package services

import (
	"context"

	"cozyberries-backend/application/ports"
	"cozyberries-backend/domain/collections"
	"cozyberries-backend/infrastructure/cache"
	apperrors "cozyberries-backend/pkg/errors"
)

// CollectionService serves the remote side of carts and wishlists: reads
// go through the cache, writes replace the whole snapshot and overwrite
// the cache entry so the next read is a clean hit.
type CollectionService struct {
	store       ports.CollectionStore
	accessor    *cache.Accessor
	invalidator *cache.Invalidator
}

// NewCollectionService creates the collection service.
func NewCollectionService(store ports.CollectionStore, accessor *cache.Accessor, invalidator *cache.Invalidator) *CollectionService {
	return &CollectionService{
		store:       store,
		accessor:    accessor,
		invalidator: invalidator,
	}
}

func tagFor(kind collections.Kind) string {
	if kind == collections.KindWishlist {
		return cache.TagWishlist
	}
	return cache.TagCart
}

func keyFor(kind collections.Kind, userID string) string {
	if kind == collections.KindWishlist {
		return cache.WishlistKey(userID)
	}
	return cache.CartKey(userID)
}

// Get returns the caller's cart or wishlist through the cache.
func (s *CollectionService) Get(ctx context.Context, userID string, kind collections.Kind) (cache.Result[collections.Collection], error) {
	if !kind.Valid() {
		return cache.Result[collections.Collection]{}, apperrors.NewValidationError("unknown collection kind")
	}

	return cache.Read(ctx, s.accessor, tagFor(kind), keyFor(kind, userID),
		func(ctx context.Context) (collections.Collection, error) {
			return s.store.GetCollection(ctx, userID, kind)
		})
}

// Replace overwrites the caller's cart or wishlist with the pushed
// snapshot. The cache entry is overwritten, not deleted: the new value is
// in hand, so the next read should not pay a miss.
func (s *CollectionService) Replace(ctx context.Context, userID string, kind collections.Kind, items collections.Collection) (collections.Collection, error) {
	if !kind.Valid() {
		return nil, apperrors.NewValidationError("unknown collection kind")
	}
	for _, item := range items {
		if item.ProductID == "" {
			return nil, apperrors.NewValidationError("collection item missing product id")
		}
		if item.Quantity <= 0 {
			return nil, apperrors.NewValidationError("collection quantities must be positive")
		}
	}

	if err := s.store.ReplaceCollection(ctx, userID, kind, items); err != nil {
		return nil, err
	}

	policy := s.accessor.Policy().For(tagFor(kind))
	s.invalidator.Replace(ctx, tagFor(kind), keyFor(kind, userID), items, policy.Stale())
	return items, nil
}

// Clear empties the caller's cart or wishlist.
func (s *CollectionService) Clear(ctx context.Context, userID string, kind collections.Kind) error {
	if !kind.Valid() {
		return apperrors.NewValidationError("unknown collection kind")
	}

	if err := s.store.ClearCollection(ctx, userID, kind); err != nil {
		return err
	}

	if kind == collections.KindWishlist {
		s.invalidator.WishlistChanged(ctx, userID)
	} else {
		s.invalidator.CartChanged(ctx, userID)
	}
	return nil
}
