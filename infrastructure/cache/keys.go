package cache

import "strings"

// Resource tags. A tag plus the owning identifiers forms a cache key; the
// same logical resource always maps to the same key.
const (
	TagOrderDetails = "ORDER_DETAILS"
	TagOrders       = "ORDERS"
	TagAddresses    = "ADDRESSES"
	TagWishlist     = "WISHLIST"
	TagCart         = "CART"
	TagRatings      = "RATINGS"
	TagSizeOptions  = "SIZE_OPTIONS"
)

// keyNamespace prefixes every key so the store can be shared with other
// deployments without collisions.
const keyNamespace = "cozyberries"

// keyDelimiter joins the namespace, tag and ids.
const keyDelimiter = ":"

// BuildKey joins a resource tag and its owning identifiers into a cache key.
// It is pure: the same inputs always produce the same key.
func BuildKey(tag string, ids ...string) string {
	parts := make([]string, 0, len(ids)+2)
	parts = append(parts, keyNamespace, tag)
	parts = append(parts, ids...)
	return strings.Join(parts, keyDelimiter)
}

// KeyPrefix returns the wildcard-free prefix for every key under a tag and
// leading ids, for use with DeletePattern.
func KeyPrefix(tag string, ids ...string) string {
	return BuildKey(tag, ids...) + keyDelimiter
}

// OrderDetailsKey addresses one order's detail view, scoped to its owner.
func OrderDetailsKey(userID, orderID string) string {
	return BuildKey(TagOrderDetails, userID, orderID)
}

// OrdersKey addresses the collection of a user's orders.
func OrdersKey(userID string) string {
	return BuildKey(TagOrders, userID)
}

// AddressesKey addresses a user's address book.
func AddressesKey(userID string) string {
	return BuildKey(TagAddresses, userID)
}

// CartKey addresses a user's cart.
func CartKey(userID string) string {
	return BuildKey(TagCart, userID)
}

// WishlistKey addresses a user's wishlist.
func WishlistKey(userID string) string {
	return BuildKey(TagWishlist, userID)
}

// RatingsKey addresses a product's aggregate rating.
func RatingsKey(productID string) string {
	return BuildKey(TagRatings, productID)
}

// SizeOptionsKey addresses the size options of a category.
func SizeOptionsKey(categoryID string) string {
	return BuildKey(TagSizeOptions, categoryID)
}
