// Package supabase is the source-of-record access layer. Every query goes
// through postgrest against the hosted Postgres; errors here are the only
// errors that surface to API callers as failures.
package supabase

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// Store wraps the Supabase client with typed, per-resource accessors.
type Store struct {
	client *supa.Client
	logger *zap.Logger
}

// NewStore creates a store over a service-role Supabase client.
func NewStore(url, serviceKey string, logger *zap.Logger) (*Store, error) {
	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Store{client: client, logger: logger}, nil
}

// NewStoreWithClient wires an existing client, used by tests.
func NewStoreWithClient(client *supa.Client, logger *zap.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Table names.
const (
	tableProducts    = "products"
	tableCategories  = "categories"
	tableSizeOptions = "size_options"
	tableOrders      = "orders"
	tablePayments    = "payments"
	tableAddresses   = "addresses"
	tableCarts       = "carts"
	tableWishlists   = "wishlists"
	tableReviews     = "reviews"
)
