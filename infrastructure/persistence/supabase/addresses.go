package supabase

import (
	"context"

	"github.com/supabase-community/postgrest-go"

	"cozyberries-backend/domain/customers"
	apperrors "cozyberries-backend/pkg/errors"
)

// ListAddresses returns a user's address book, default address first.
func (s *Store) ListAddresses(ctx context.Context, userID string) ([]customers.Address, error) {
	var list []customers.Address
	_, err := s.client.From(tableAddresses).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("is_default", &postgrest.OrderOpts{Ascending: false}).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&list)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to list addresses", err)
	}
	return list, nil
}

// GetAddress returns one address; callers enforce ownership.
func (s *Store) GetAddress(ctx context.Context, addressID string) (*customers.Address, error) {
	var list []customers.Address
	_, err := s.client.From(tableAddresses).
		Select("*", "", false).
		Eq("id", addressID).
		Limit(1, "").
		ExecuteTo(&list)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to fetch address", err)
	}
	if len(list) == 0 {
		return nil, apperrors.NewNotFoundError("address not found")
	}
	return &list[0], nil
}

// CreateAddress inserts a new address and returns the stored row.
func (s *Store) CreateAddress(ctx context.Context, address *customers.Address) (*customers.Address, error) {
	var inserted []customers.Address
	_, err := s.client.From(tableAddresses).
		Insert(address, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to create address", err)
	}
	if len(inserted) == 0 {
		return nil, apperrors.NewDatabaseError("address insert returned no row", nil)
	}
	return &inserted[0], nil
}

// UpdateAddress replaces an address's fields and returns the updated row.
func (s *Store) UpdateAddress(ctx context.Context, addressID string, address *customers.Address) (*customers.Address, error) {
	var updated []customers.Address
	_, err := s.client.From(tableAddresses).
		Update(address, "representation", "").
		Eq("id", addressID).
		ExecuteTo(&updated)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to update address", err)
	}
	if len(updated) == 0 {
		return nil, apperrors.NewNotFoundError("address not found")
	}
	return &updated[0], nil
}

// DeleteAddress removes an address.
func (s *Store) DeleteAddress(ctx context.Context, addressID string) error {
	_, _, err := s.client.From(tableAddresses).
		Delete("", "").
		Eq("id", addressID).
		Execute()
	if err != nil {
		return apperrors.NewDatabaseError("failed to delete address", err)
	}
	return nil
}

// ClearDefaultAddress removes the default flag from all of a user's
// addresses, so a new default can be set without two rows claiming it.
func (s *Store) ClearDefaultAddress(ctx context.Context, userID string) error {
	_, _, err := s.client.From(tableAddresses).
		Update(map[string]interface{}{"is_default": false}, "", "").
		Eq("user_id", userID).
		Eq("is_default", "true").
		Execute()
	if err != nil {
		return apperrors.NewDatabaseError("failed to clear default address", err)
	}
	return nil
}
