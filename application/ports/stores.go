// Package ports defines the interfaces the application layer depends on,
// so services can be exercised against fakes in tests and wired to the
// Supabase store in production.
package ports

import (
	"context"

	"cozyberries-backend/domain/catalog"
	"cozyberries-backend/domain/collections"
	"cozyberries-backend/domain/customers"
	"cozyberries-backend/domain/orders"
	"cozyberries-backend/domain/reviews"
	"cozyberries-backend/pkg/common"
)

// CatalogStore is the source-of-record for products, categories and sizes.
type CatalogStore interface {
	ListProducts(ctx context.Context, filter catalog.Filter, page common.PaginationParams) ([]catalog.Product, int, error)
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	CreateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, product *catalog.Product) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SearchSuggestions(ctx context.Context, prefix string, limit int) ([]catalog.Suggestion, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListSizeOptions(ctx context.Context, categoryID string) ([]catalog.SizeOption, error)
}

// OrderStore is the source-of-record for orders and payments.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *orders.Order) (*orders.Order, error)
	ListOrders(ctx context.Context, userID string) ([]orders.Order, error)
	GetOrder(ctx context.Context, orderID string) (*orders.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status orders.Status) (*orders.Order, error)
	InsertPayment(ctx context.Context, payment *orders.Payment) (*orders.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error
}

// AddressStore is the source-of-record for customer addresses.
type AddressStore interface {
	ListAddresses(ctx context.Context, userID string) ([]customers.Address, error)
	GetAddress(ctx context.Context, addressID string) (*customers.Address, error)
	CreateAddress(ctx context.Context, address *customers.Address) (*customers.Address, error)
	UpdateAddress(ctx context.Context, addressID string, address *customers.Address) (*customers.Address, error)
	DeleteAddress(ctx context.Context, addressID string) error
	ClearDefaultAddress(ctx context.Context, userID string) error
}

// CollectionStore is the source-of-record for carts and wishlists.
type CollectionStore interface {
	GetCollection(ctx context.Context, userID string, kind collections.Kind) (collections.Collection, error)
	ReplaceCollection(ctx context.Context, userID string, kind collections.Kind, items collections.Collection) error
	ClearCollection(ctx context.Context, userID string, kind collections.Kind) error
}

// ReviewStore is the source-of-record for product reviews.
type ReviewStore interface {
	UpsertReview(ctx context.Context, review *reviews.Review) (*reviews.Review, error)
	ListReviews(ctx context.Context, productID string) ([]reviews.Review, error)
	DeleteReview(ctx context.Context, reviewID string) error
}
