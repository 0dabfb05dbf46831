package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cozyberries-backend/application/ports"
	"cozyberries-backend/domain/orders"
	"cozyberries-backend/infrastructure/cache"
	apperrors "cozyberries-backend/pkg/errors"
)

// OrderService orchestrates order reads through the cache and order writes
// through the source-of-record followed by owner-scoped invalidation.
type OrderService struct {
	store       ports.OrderStore
	catalog     ports.CatalogStore
	accessor    *cache.Accessor
	invalidator *cache.Invalidator
	logger      *zap.Logger

	freeShippingAbove float64
	shippingFee       float64
}

// NewOrderService creates the order service.
func NewOrderService(
	store ports.OrderStore,
	catalog ports.CatalogStore,
	accessor *cache.Accessor,
	invalidator *cache.Invalidator,
	logger *zap.Logger,
	freeShippingAbove, shippingFee float64,
) *OrderService {
	return &OrderService{
		store:             store,
		catalog:           catalog,
		accessor:          accessor,
		invalidator:       invalidator,
		logger:            logger,
		freeShippingAbove: freeShippingAbove,
		shippingFee:       shippingFee,
	}
}

// Create places a new order. Unit prices and totals come from the catalog,
// never from the request.
func (s *OrderService) Create(ctx context.Context, userID, addressID string, items []orders.Item) (*orders.Order, error) {
	if err := orders.ValidateItems(items); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	for i := range items {
		product, err := s.catalog.GetProduct(ctx, items[i].ProductID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewValidationError("unknown product " + items[i].ProductID)
			}
			return nil, err
		}
		if product.StockQuantity < items[i].Quantity {
			return nil, apperrors.NewConflictError("insufficient stock for " + product.Name)
		}
		items[i].Name = product.Name
		items[i].UnitPrice = product.Price
	}

	order := &orders.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    orders.StatusPending,
		Items:     items,
		AddressID: addressID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	order.ComputeTotals(s.freeShippingAbove, s.shippingFee)

	created, err := s.store.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	s.invalidator.OrderChanged(ctx, userID, created.ID)
	return created, nil
}

// List returns the caller's orders through the cache.
func (s *OrderService) List(ctx context.Context, userID string) (cache.Result[[]orders.Order], error) {
	return cache.Read(ctx, s.accessor, cache.TagOrders, cache.OrdersKey(userID),
		func(ctx context.Context) ([]orders.Order, error) {
			return s.store.ListOrders(ctx, userID)
		})
}

// Get returns one of the caller's orders through the cache. The ownership
// check lives inside the fetch so a cached entry, keyed by the owner, can
// never leak across users.
func (s *OrderService) Get(ctx context.Context, userID, orderID string) (cache.Result[*orders.Order], error) {
	return cache.Read(ctx, s.accessor, cache.TagOrderDetails, cache.OrderDetailsKey(userID, orderID),
		func(ctx context.Context) (*orders.Order, error) {
			order, err := s.store.GetOrder(ctx, orderID)
			if err != nil {
				return nil, err
			}
			if order.UserID != userID {
				return nil, apperrors.NewNotFoundError("order not found")
			}
			return order, nil
		})
}

// GetAsAdmin returns any order directly from the source-of-record. Admin
// reads bypass the cache: entries are keyed per owner and an admin pageview
// must not populate another user's namespace with its own timing.
func (s *OrderService) GetAsAdmin(ctx context.Context, orderID string) (*orders.Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

// UpdateStatus transitions an order's status on behalf of an admin. The
// invalidated keys are the owner's, not the acting admin's.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status orders.Status) (*orders.Order, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown order status")
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, apperrors.NewConflictError("cannot move order from " + string(order.Status) + " to " + string(status))
	}

	updated, err := s.store.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	s.invalidator.OrderChanged(ctx, order.UserID, orderID)
	return updated, nil
}

// Cancel cancels one of the caller's own orders.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID string) (*orders.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	if !order.Status.CanTransitionTo(orders.StatusCancelled) {
		return nil, apperrors.NewConflictError("order can no longer be cancelled")
	}

	updated, err := s.store.UpdateOrderStatus(ctx, orderID, orders.StatusCancelled)
	if err != nil {
		return nil, err
	}

	s.invalidator.OrderChanged(ctx, userID, orderID)
	return updated, nil
}

// ConfirmUPIPayment records a UPI payment and marks the order paid.
//
// The two writes are not one transaction: the payment row is inserted
// first, and if the order update fails the payment row is deleted as a
// compensating action. Two concurrent confirmations for the same order can
// interleave between the insert and the update; the unique payment
// reference constraint narrows but does not close that window.
// TODO: replace with a single RPC wrapping both writes in one transaction.
func (s *OrderService) ConfirmUPIPayment(ctx context.Context, userID, orderID, upiReference string) (*orders.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	if order.Status != orders.StatusPending {
		return nil, apperrors.NewConflictError("order is not awaiting payment")
	}

	payment, err := s.store.InsertPayment(ctx, &orders.Payment{
		ID:           uuid.New().String(),
		OrderID:      orderID,
		UserID:       userID,
		Method:       orders.PaymentMethodUPI,
		UPIReference: upiReference,
		Amount:       order.Total,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateOrderStatus(ctx, orderID, orders.StatusPaid)
	if err != nil {
		// Compensating delete of the payment row just inserted.
		if delErr := s.store.DeletePayment(ctx, payment.ID); delErr != nil {
			s.logger.Error("Payment compensation failed, orphaned payment row",
				zap.String("payment_id", payment.ID),
				zap.String("order_id", orderID),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	s.invalidator.OrderChanged(ctx, userID, orderID)
	return updated, nil
}
