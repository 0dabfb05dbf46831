package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cozyberries-backend/infrastructure/config"
	"cozyberries-backend/pkg/async"
)

func newTestInvalidator(gw Gateway) *Invalidator {
	return NewInvalidator(gw, zap.NewNop(), NewMetrics(prometheus.NewRegistry()))
}

func TestOrderChangedRemovesDetailAndCollectionKeys(t *testing.T) {
	gw := newFakeGateway()
	gw.seed(OrderDetailsKey("user-1", "order-1"), "old-order", time.Now())
	gw.seed(OrdersKey("user-1"), "old-list", time.Now())
	gw.seed(OrdersKey("user-2"), "other-user", time.Now())

	newTestInvalidator(gw).OrderChanged(context.Background(), "user-1", "order-1")

	_, ok := gw.entries[OrderDetailsKey("user-1", "order-1")]
	assert.False(t, ok)
	_, ok = gw.entries[OrdersKey("user-1")]
	assert.False(t, ok)
	_, ok = gw.entries[OrdersKey("user-2")]
	assert.True(t, ok, "another user's entries are untouched")
}

func TestWriteThenReadNeverServesPreWriteValue(t *testing.T) {
	gw := newFakeGateway()
	key := OrderDetailsKey("user-1", "order-1")
	gw.seed(key, "pre-write", time.Now())

	// The mutation commits against the source-of-record, then invalidates.
	newTestInvalidator(gw).OrderChanged(context.Background(), "user-1", "order-1")

	runner := async.NewRunner(zap.NewNop(), 4, time.Second)
	accessor := NewAccessor(gw, config.NewCachePolicy(), runner, zap.NewNop(), NewMetrics(prometheus.NewRegistry()))

	result, err := Read(context.Background(), accessor, TagOrderDetails, key, func(ctx context.Context) (string, error) {
		return "post-write", nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusMiss, result.Status)
	assert.Equal(t, "post-write", result.Value)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, runner.Close(ctx))
}

func TestOrdersClearedRemovesAllDetailKeys(t *testing.T) {
	gw := newFakeGateway()
	gw.seed(OrderDetailsKey("user-1", "order-1"), "a", time.Now())
	gw.seed(OrderDetailsKey("user-1", "order-2"), "b", time.Now())
	gw.seed(OrdersKey("user-1"), "list", time.Now())
	gw.seed(OrderDetailsKey("user-2", "order-1"), "keep", time.Now())

	newTestInvalidator(gw).OrdersCleared(context.Background(), "user-1")

	assert.Empty(t, gw.entries[OrderDetailsKey("user-1", "order-1")])
	assert.Empty(t, gw.entries[OrderDetailsKey("user-1", "order-2")])
	assert.Empty(t, gw.entries[OrdersKey("user-1")])
	assert.NotEmpty(t, gw.entries[OrderDetailsKey("user-2", "order-1")])
}

func TestReplaceOverwritesEntry(t *testing.T) {
	gw := newFakeGateway()
	key := CartKey("user-1")
	gw.seed(key, "old", time.Now().Add(-time.Hour))

	newTestInvalidator(gw).Replace(context.Background(), TagCart, key, "new", 5*time.Minute)

	env, ok := gw.entries[key]
	require.True(t, ok)
	assert.JSONEq(t, `"new"`, string(env.Value))
	assert.WithinDuration(t, time.Now(), env.StoredAt, time.Second)
}
