package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Invalidator removes cache entries a just-committed mutation has made
// incorrect. It runs after the source-of-record write succeeds; its failures
// are logged and swallowed, never failing or rolling back the mutation.
//
// Keys are always resolved for the resource's owning user: an administrator
// updating a customer's order invalidates the customer's keys, not the
// administrator's.
type Invalidator struct {
	gateway Gateway
	logger  *zap.Logger
	metrics *Metrics
}

// NewInvalidator creates an invalidator over the gateway.
func NewInvalidator(gateway Gateway, logger *zap.Logger, metrics *Metrics) *Invalidator {
	return &Invalidator{
		gateway: gateway,
		logger:  logger,
		metrics: metrics,
	}
}

// invalidate deletes keys with a short deadline detached from the request's
// remaining budget.
func (i *Invalidator) invalidate(ctx context.Context, tag string, keys ...string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := i.gateway.Delete(ctx, keys...); err != nil {
		i.logger.Warn("Cache invalidation failed",
			zap.String("resource", tag),
			zap.Strings("keys", keys),
			zap.Error(err),
		)
		return
	}
	i.metrics.ObserveInvalidation(tag)
}

// Replace overwrites a single entry with the post-mutation value instead of
// deleting it, so the next read is a clean hit.
func (i *Invalidator) Replace(ctx context.Context, tag, key string, value interface{}, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := i.gateway.Set(ctx, key, value, ttl); err != nil {
		i.logger.Warn("Cache overwrite failed",
			zap.String("resource", tag),
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	i.metrics.ObserveInvalidation(tag)
}

// OrderChanged invalidates one order's detail entry and the owner's order
// collection.
func (i *Invalidator) OrderChanged(ctx context.Context, ownerID, orderID string) {
	i.invalidate(ctx, TagOrderDetails, OrderDetailsKey(ownerID, orderID), OrdersKey(ownerID))
}

// OrdersCleared invalidates every order entry belonging to the owner,
// including all detail keys, via prefix delete.
func (i *Invalidator) OrdersCleared(ctx context.Context, ownerID string) {
	ctx2, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := i.gateway.DeletePattern(ctx2, KeyPrefix(TagOrderDetails, ownerID)); err == nil {
		i.metrics.ObserveInvalidation(TagOrderDetails)
	}
	i.invalidate(ctx, TagOrders, OrdersKey(ownerID))
}

// AddressesChanged invalidates the owner's address book.
func (i *Invalidator) AddressesChanged(ctx context.Context, ownerID string) {
	i.invalidate(ctx, TagAddresses, AddressesKey(ownerID))
}

// CartChanged invalidates the owner's cart.
func (i *Invalidator) CartChanged(ctx context.Context, ownerID string) {
	i.invalidate(ctx, TagCart, CartKey(ownerID))
}

// WishlistChanged invalidates the owner's wishlist.
func (i *Invalidator) WishlistChanged(ctx context.Context, ownerID string) {
	i.invalidate(ctx, TagWishlist, WishlistKey(ownerID))
}

// RatingsChanged invalidates a product's aggregate rating.
func (i *Invalidator) RatingsChanged(ctx context.Context, productID string) {
	i.invalidate(ctx, TagRatings, RatingsKey(productID))
}

// SizeOptionsChanged invalidates a category's size options.
func (i *Invalidator) SizeOptionsChanged(ctx context.Context, categoryID string) {
	i.invalidate(ctx, TagSizeOptions, SizeOptionsKey(categoryID))
}
