package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildKeyIsDeterministic(t *testing.T) {
	first := BuildKey(TagOrderDetails, "user-1", "order-9")
	second := BuildKey(TagOrderDetails, "user-1", "order-9")

	assert.Equal(t, first, second)
	assert.Equal(t, "cozyberries:ORDER_DETAILS:user-1:order-9", first)
}

func TestBuildKeyDistinctResourcesNeverCollide(t *testing.T) {
	keys := []string{
		OrderDetailsKey("user-1", "order-1"),
		OrderDetailsKey("user-1", "order-2"),
		OrderDetailsKey("user-2", "order-1"),
		OrdersKey("user-1"),
		AddressesKey("user-1"),
		CartKey("user-1"),
		WishlistKey("user-1"),
		RatingsKey("user-1"),
		SizeOptionsKey("user-1"),
	}

	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestKeyPrefixCoversDetailKeys(t *testing.T) {
	prefix := KeyPrefix(TagOrderDetails, "user-1")
	key := OrderDetailsKey("user-1", "order-7")

	assert.Contains(t, key, prefix)
	// A different user's keys must not match the prefix.
	assert.NotContains(t, OrderDetailsKey("user-10", "order-7"), prefix)
}
