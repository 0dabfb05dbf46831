package supabase

import (
	"context"

	"github.com/supabase-community/postgrest-go"
	"go.uber.org/zap"

	"cozyberries-backend/domain/orders"
	apperrors "cozyberries-backend/pkg/errors"
)

// CreateOrder inserts a new order and returns the stored row.
func (s *Store) CreateOrder(ctx context.Context, order *orders.Order) (*orders.Order, error) {
	var inserted []orders.Order
	_, err := s.client.From(tableOrders).
		Insert(order, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to create order", err)
	}
	if len(inserted) == 0 {
		return nil, apperrors.NewDatabaseError("order insert returned no row", nil)
	}
	return &inserted[0], nil
}

// ListOrders returns a user's orders, newest first.
func (s *Store) ListOrders(ctx context.Context, userID string) ([]orders.Order, error) {
	var list []orders.Order
	_, err := s.client.From(tableOrders).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&list)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to list orders", err)
	}
	return list, nil
}

// GetOrder returns one order by id regardless of owner; callers enforce
// ownership or admin access.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	var list []orders.Order
	_, err := s.client.From(tableOrders).
		Select("*", "", false).
		Eq("id", orderID).
		Limit(1, "").
		ExecuteTo(&list)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to fetch order", err)
	}
	if len(list) == 0 {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	return &list[0], nil
}

// UpdateOrderStatus sets an order's status and returns the updated row.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status orders.Status) (*orders.Order, error) {
	var updated []orders.Order
	_, err := s.client.From(tableOrders).
		Update(map[string]interface{}{"status": status}, "representation", "").
		Eq("id", orderID).
		ExecuteTo(&updated)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to update order status", err)
	}
	if len(updated) == 0 {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	return &updated[0], nil
}

// InsertPayment records a completed payment row.
func (s *Store) InsertPayment(ctx context.Context, payment *orders.Payment) (*orders.Payment, error) {
	var inserted []orders.Payment
	_, err := s.client.From(tablePayments).
		Insert(payment, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to record payment", err)
	}
	if len(inserted) == 0 {
		return nil, apperrors.NewDatabaseError("payment insert returned no row", nil)
	}
	return &inserted[0], nil
}

// DeletePayment removes a payment row. Used only by the compensating path
// in payment confirmation; a failure here is logged by the caller.
func (s *Store) DeletePayment(ctx context.Context, paymentID string) error {
	_, _, err := s.client.From(tablePayments).
		Delete("", "").
		Eq("id", paymentID).
		Execute()
	if err != nil {
		s.logger.Error("Failed to delete payment row", zap.String("payment_id", paymentID), zap.Error(err))
		return apperrors.NewDatabaseError("failed to delete payment", err)
	}
	return nil
}
