package integration

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cozyberries-backend/application/services"
	"cozyberries-backend/domain/catalog"
	"cozyberries-backend/domain/orders"
	"cozyberries-backend/infrastructure/cache"
	"cozyberries-backend/infrastructure/config"
	"cozyberries-backend/pkg/async"
	"cozyberries-backend/pkg/common"
	apperrors "cozyberries-backend/pkg/errors"
)

// memGateway is a concurrency-safe in-memory stand-in for the Redis gateway.
type memGateway struct {
	mu      sync.Mutex
	entries map[string]*cache.Envelope
	sets    int
}

func newMemGateway() *memGateway {
	return &memGateway{entries: map[string]*cache.Envelope{}}
}

func (g *memGateway) Get(ctx context.Context, key string, timeout time.Duration) (*cache.Envelope, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	env, ok := g.entries[key]
	return env, ok
}

func (g *memGateway) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[key] = &cache.Envelope{Value: payload, StoredAt: time.Now()}
	g.sets++
	return nil
}

func (g *memGateway) Delete(ctx context.Context, keys ...string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, key := range keys {
		delete(g.entries, key)
	}
	return nil
}

func (g *memGateway) DeletePattern(ctx context.Context, prefix string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for key := range g.entries {
		if strings.HasPrefix(key, prefix) {
			delete(g.entries, key)
		}
	}
	return nil
}

func (g *memGateway) setCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sets
}

// orderStore is a minimal in-memory source-of-record with a fetch counter.
type orderStore struct {
	mu      sync.Mutex
	orders  map[string]*orders.Order
	fetches int
}

func (s *orderStore) CreateOrder(ctx context.Context, order *orders.Order) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *order
	s.orders[order.ID] = &copied
	return order, nil
}

func (s *orderStore) ListOrders(ctx context.Context, userID string) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []orders.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *orderStore) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	o, ok := s.orders[orderID]
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	copied := *o
	return &copied, nil
}

func (s *orderStore) UpdateOrderStatus(ctx context.Context, orderID string, status orders.Status) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	o.Status = status
	copied := *o
	return &copied, nil
}

func (s *orderStore) InsertPayment(ctx context.Context, payment *orders.Payment) (*orders.Payment, error) {
	return payment, nil
}

func (s *orderStore) DeletePayment(ctx context.Context, paymentID string) error {
	return nil
}

func (s *orderStore) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

// catalogStub satisfies the catalog port; the order read path never calls it.
type catalogStub struct{}

func (catalogStub) ListProducts(ctx context.Context, filter catalog.Filter, page common.PaginationParams) ([]catalog.Product, int, error) {
	return nil, 0, nil
}
func (catalogStub) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return nil, apperrors.NewNotFoundError("product not found")
}
func (catalogStub) CreateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	return product, nil
}
func (catalogStub) UpdateProduct(ctx context.Context, id string, product *catalog.Product) (*catalog.Product, error) {
	return product, nil
}
func (catalogStub) DeleteProduct(ctx context.Context, id string) error { return nil }
func (catalogStub) SearchSuggestions(ctx context.Context, prefix string, limit int) ([]catalog.Suggestion, error) {
	return nil, nil
}
func (catalogStub) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return nil, nil
}
func (catalogStub) ListSizeOptions(ctx context.Context, categoryID string) ([]catalog.SizeOption, error) {
	return nil, nil
}

// waitForSets blocks until the gateway has seen at least n writes, so tests
// can observe background population deterministically.
func waitForSets(t *testing.T, gw *memGateway, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if gw.setCount() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("gateway never reached %d writes", n)
}

// TestOrderReadWriteCycle walks an order through the full cache lifecycle:
// a cold read misses and populates in the background, a warm read hits, and
// a status write invalidates so the next read reflects the new state.
func TestOrderReadWriteCycle(t *testing.T) {
	ctx := context.Background()

	store := &orderStore{orders: map[string]*orders.Order{
		"o1": {ID: "o1", UserID: "user-1", Status: orders.StatusPaid, Total: 847},
	}}
	gw := newMemGateway()
	logger := zap.NewNop()
	runner := async.NewRunner(logger, 4, 2*time.Second)
	defer runner.Close(context.Background())

	accessor := cache.NewAccessor(gw, config.NewCachePolicy(), runner, logger, nil)
	invalidator := cache.NewInvalidator(gw, logger, nil)
	svc := services.NewOrderService(store, catalogStub{}, accessor, invalidator, logger, 999, 49)

	// Cold read: cache is empty, so the order comes from the store and the
	// entry is populated in the background.
	first, err := svc.Get(ctx, "user-1", "o1")
	require.NoError(t, err)
	assert.Equal(t, cache.StatusMiss, first.Status)
	assert.Equal(t, orders.StatusPaid, first.Value.Status)
	require.Equal(t, 1, store.fetchCount())

	waitForSets(t, gw, 1)

	// Warm read: served from cache without touching the store.
	second, err := svc.Get(ctx, "user-1", "o1")
	require.NoError(t, err)
	assert.Equal(t, cache.StatusHit, second.Status)
	assert.Equal(t, orders.StatusPaid, second.Value.Status)
	assert.Equal(t, 1, store.fetchCount(), "hit must not reach the store")

	// Write path: the admin moves the order along; the owner's entries are
	// invalidated as part of the mutation.
	_, err = svc.UpdateStatus(ctx, "o1", orders.StatusShipped)
	require.NoError(t, err)

	// The next read must never serve the pre-write payload.
	third, err := svc.Get(ctx, "user-1", "o1")
	require.NoError(t, err)
	assert.Equal(t, cache.StatusMiss, third.Status)
	assert.Equal(t, orders.StatusShipped, third.Value.Status)
}

// TestOrderListCycle exercises the collection entry the same way.
func TestOrderListCycle(t *testing.T) {
	ctx := context.Background()

	store := &orderStore{orders: map[string]*orders.Order{
		"o1": {ID: "o1", UserID: "user-1", Status: orders.StatusPending},
	}}
	gw := newMemGateway()
	logger := zap.NewNop()
	runner := async.NewRunner(logger, 4, 2*time.Second)
	defer runner.Close(context.Background())

	accessor := cache.NewAccessor(gw, config.NewCachePolicy(), runner, logger, nil)
	invalidator := cache.NewInvalidator(gw, logger, nil)
	svc := services.NewOrderService(store, catalogStub{}, accessor, invalidator, logger, 999, 49)

	first, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, cache.StatusMiss, first.Status)
	require.Len(t, first.Value, 1)

	waitForSets(t, gw, 1)

	second, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, cache.StatusHit, second.Status)

	// Cancelling invalidates the collection entry along with the detail.
	_, err = svc.Cancel(ctx, "user-1", "o1")
	require.NoError(t, err)

	third, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, cache.StatusMiss, third.Status)
	require.Len(t, third.Value, 1)
	assert.Equal(t, orders.StatusCancelled, third.Value[0].Status)
}
