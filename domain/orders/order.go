package orders

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var validTransitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered},
}

// CanTransitionTo reports whether the status change is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item is one order line.
type Item struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is a customer's placed order.
type Order struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Status      Status    `json:"status"`
	Items       []Item    `json:"items"`
	Subtotal    float64   `json:"subtotal"`
	ShippingFee float64   `json:"shipping_fee"`
	Total       float64   `json:"total"`
	AddressID   string    `json:"address_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ComputeTotals recalculates line subtotals and the order totals from the
// items. Totals are always computed server-side, never trusted from input.
func (o *Order) ComputeTotals(freeShippingAbove, shippingFee float64) {
	o.Subtotal = 0
	for i := range o.Items {
		o.Items[i].Subtotal = float64(o.Items[i].Quantity) * o.Items[i].UnitPrice
		o.Subtotal += o.Items[i].Subtotal
	}
	o.ShippingFee = shippingFee
	if o.Subtotal >= freeShippingAbove {
		o.ShippingFee = 0
	}
	o.Total = o.Subtotal + o.ShippingFee
}

// PaymentMethod identifies how an order was paid.
type PaymentMethod string

const (
	PaymentMethodUPI PaymentMethod = "upi"
	PaymentMethodCOD PaymentMethod = "cod"
)

// Payment records a completed payment against an order.
type Payment struct {
	ID           string        `json:"id"`
	OrderID      string        `json:"order_id"`
	UserID       string        `json:"user_id"`
	Method       PaymentMethod `json:"method"`
	UPIReference string        `json:"upi_reference,omitempty"`
	Amount       float64       `json:"amount"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ValidateItems rejects orders with no lines or non-positive quantities.
func ValidateItems(items []Item) error {
	if len(items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}
	for _, item := range items {
		if item.ProductID == "" {
			return fmt.Errorf("order item missing product id")
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("quantity for product %s must be positive", item.ProductID)
		}
	}
	return nil
}
