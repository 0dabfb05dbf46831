package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cozyberries-backend/domain/catalog"
	"cozyberries-backend/domain/orders"
	"cozyberries-backend/infrastructure/cache"
	"cozyberries-backend/infrastructure/config"
	"cozyberries-backend/pkg/async"
	"cozyberries-backend/pkg/common"
	apperrors "cozyberries-backend/pkg/errors"
)

// memGateway is an in-memory cache gateway for service tests.
type memGateway struct {
	mu      sync.Mutex
	entries map[string]*cache.Envelope
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

func (g *memGateway) has(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.entries[key]
	return ok
}

// fakeOrderStore keeps orders and payments in maps and can fail on demand.
type fakeOrderStore struct {
	mu            sync.Mutex
	orders        map[string]*orders.Order
	payments      map[string]*orders.Payment
	updateErr     error
	deletedPayees []string
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:   map[string]*orders.Order{},
		payments: map[string]*orders.Payment{},
	}
}

func (f *fakeOrderStore) CreateOrder(ctx context.Context, order *orders.Order) (*orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *order
	f.orders[order.ID] = &copied
	return order, nil
}

func (f *fakeOrderStore) ListOrders(ctx context.Context, userID string) ([]orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []orders.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(ctx context.Context, orderID string, status orders.Status) (*orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	o.Status = status
	copied := *o
	return &copied, nil
}

func (f *fakeOrderStore) InsertPayment(ctx context.Context, payment *orders.Payment) (*orders.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *payment
	f.payments[payment.ID] = &copied
	return payment, nil
}

func (f *fakeOrderStore) DeletePayment(ctx context.Context, paymentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.payments, paymentID)
	f.deletedPayees = append(f.deletedPayees, paymentID)
	return nil
}

func newOrderService(t *testing.T, store *fakeOrderStore, products map[string]*catalog.Product) (*OrderService, *memGateway) {
	t.Helper()
	gw := newMemGateway()
	logger := zap.NewNop()
	runner := async.NewRunner(logger, 4, time.Second)
	t.Cleanup(func() { runner.Close(context.Background()) })
	accessor := cache.NewAccessor(gw, config.NewCachePolicy(), runner, logger, nil)
	invalidator := cache.NewInvalidator(gw, logger, nil)
	svc := NewOrderService(store, &catalogStoreAdapter{products: products}, accessor, invalidator, logger, 999, 49)
	return svc, gw
}

// catalogStoreAdapter satisfies ports.CatalogStore with only GetProduct live.
type catalogStoreAdapter struct {
	products map[string]*catalog.Product
}

func (a *catalogStoreAdapter) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := a.products[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("product not found")
	}
	copied := *p
	return &copied, nil
}

func (a *catalogStoreAdapter) ListProducts(ctx context.Context, filter catalog.Filter, page common.PaginationParams) ([]catalog.Product, int, error) {
	return nil, 0, nil
}

func (a *catalogStoreAdapter) CreateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	return product, nil
}

func (a *catalogStoreAdapter) UpdateProduct(ctx context.Context, id string, product *catalog.Product) (*catalog.Product, error) {
	return product, nil
}

func (a *catalogStoreAdapter) DeleteProduct(ctx context.Context, id string) error { return nil }

func (a *catalogStoreAdapter) SearchSuggestions(ctx context.Context, prefix string, limit int) ([]catalog.Suggestion, error) {
	return nil, nil
}

func (a *catalogStoreAdapter) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return nil, nil
}

func (a *catalogStoreAdapter) ListSizeOptions(ctx context.Context, categoryID string) ([]catalog.SizeOption, error) {
	return nil, nil
}

var testProducts = map[string]*catalog.Product{
	"p1": {ID: "p1", Name: "Berry Onesie", Price: 399, StockQuantity: 10},
	"p2": {ID: "p2", Name: "Cloud Blanket", Price: 899, StockQuantity: 3},
}

func TestCreateOrderComputesTotalsServerSide(t *testing.T) {
	store := newFakeOrderStore()
	svc, _ := newOrderService(t, store, testProducts)

	// Client-sent prices are ignored in favour of the catalog's.
	order, err := svc.Create(context.Background(), "user-1", "addr-1", []orders.Item{
		{ProductID: "p1", Quantity: 2, UnitPrice: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, orders.StatusPending, order.Status)
	assert.Equal(t, 399.0, order.Items[0].UnitPrice)
	assert.Equal(t, 798.0, order.Subtotal)
	assert.Equal(t, 49.0, order.ShippingFee, "below the free shipping threshold")
	assert.Equal(t, 847.0, order.Total)
}

func TestCreateOrderFreeShippingAboveThreshold(t *testing.T) {
	store := newFakeOrderStore()
	svc, _ := newOrderService(t, store, testProducts)

	order, err := svc.Create(context.Background(), "user-1", "addr-1", []orders.Item{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 1298.0, order.Subtotal)
	assert.Zero(t, order.ShippingFee)
	assert.Equal(t, 1298.0, order.Total)
}

func TestCreateOrderRejectsUnknownProductAndOverdraft(t *testing.T) {
	store := newFakeOrderStore()
	svc, _ := newOrderService(t, store, testProducts)

	_, err := svc.Create(context.Background(), "user-1", "addr-1", []orders.Item{
		{ProductID: "ghost", Quantity: 1},
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)

	_, err = svc.Create(context.Background(), "user-1", "addr-1", []orders.Item{
		{ProductID: "p2", Quantity: 5},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestGetOrderOwnershipEnforcedInsideFetch(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["o1"] = &orders.Order{ID: "o1", UserID: "owner", Status: orders.StatusPending}
	svc, gw := newOrderService(t, store, testProducts)

	_, err := svc.Get(context.Background(), "intruder", "o1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	// The failed read must not have cached anything under the intruder.
	time.Sleep(50 * time.Millisecond)
	assert.False(t, gw.has(cache.OrderDetailsKey("intruder", "o1")))
}

func TestUPIPaymentCompensatesOnOrderUpdateFailure(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["o1"] = &orders.Order{ID: "o1", UserID: "user-1", Status: orders.StatusPending, Total: 847}
	store.updateErr = errors.New("connection reset")
	svc, _ := newOrderService(t, store, testProducts)

	_, err := svc.ConfirmUPIPayment(context.Background(), "user-1", "o1", "upi-ref-123")
	require.Error(t, err)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.payments, "payment row removed by the compensating delete")
	assert.Len(t, store.deletedPayees, 1)
}

func TestUPIPaymentMarksOrderPaid(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["o1"] = &orders.Order{ID: "o1", UserID: "user-1", Status: orders.StatusPending, Total: 847}
	svc, _ := newOrderService(t, store, testProducts)

	updated, err := svc.ConfirmUPIPayment(context.Background(), "user-1", "o1", "upi-ref-123")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPaid, updated.Status)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.payments, 1)
	for _, p := range store.payments {
		assert.Equal(t, 847.0, p.Amount)
		assert.Equal(t, orders.PaymentMethodUPI, p.Method)
	}
}

func TestAdminStatusUpdateInvalidatesOwnerKeys(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["o1"] = &orders.Order{ID: "o1", UserID: "owner", Status: orders.StatusPaid}
	svc, gw := newOrderService(t, store, testProducts)

	ctx := context.Background()
	require.NoError(t, gw.Set(ctx, cache.OrderDetailsKey("owner", "o1"), "stale", time.Minute))
	require.NoError(t, gw.Set(ctx, cache.OrdersKey("owner"), "stale", time.Minute))
	require.NoError(t, gw.Set(ctx, cache.OrdersKey("bystander"), "untouched", time.Minute))

	_, err := svc.UpdateStatus(ctx, "o1", orders.StatusShipped)
	require.NoError(t, err)

	assert.False(t, gw.has(cache.OrderDetailsKey("owner", "o1")), "owner's detail entry invalidated")
	assert.False(t, gw.has(cache.OrdersKey("owner")), "owner's collection entry invalidated")
	assert.True(t, gw.has(cache.OrdersKey("bystander")), "other users' entries untouched")
}

func TestAdminStatusUpdateRejectsIllegalTransition(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["o1"] = &orders.Order{ID: "o1", UserID: "owner", Status: orders.StatusDelivered}
	svc, _ := newOrderService(t, store, testProducts)

	_, err := svc.UpdateStatus(context.Background(), "o1", orders.StatusPending)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestCancelOnlyWhileCancellable(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["o1"] = &orders.Order{ID: "o1", UserID: "user-1", Status: orders.StatusShipped}
	svc, _ := newOrderService(t, store, testProducts)

	_, err := svc.Cancel(context.Background(), "user-1", "o1")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	store.orders["o2"] = &orders.Order{ID: "o2", UserID: "user-1", Status: orders.StatusPending}
	cancelled, err := svc.Cancel(context.Background(), "user-1", "o2")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusCancelled, cancelled.Status)
}
