package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cozyberries-backend/application/ports"
	"cozyberries-backend/domain/customers"
	"cozyberries-backend/infrastructure/cache"
	apperrors "cozyberries-backend/pkg/errors"
)

// AddressService manages a customer's address book, cached per user.
type AddressService struct {
	store       ports.AddressStore
	accessor    *cache.Accessor
	invalidator *cache.Invalidator
}

// NewAddressService creates the address service.
func NewAddressService(store ports.AddressStore, accessor *cache.Accessor, invalidator *cache.Invalidator) *AddressService {
	return &AddressService{
		store:       store,
		accessor:    accessor,
		invalidator: invalidator,
	}
}

// List returns the caller's addresses through the cache.
func (s *AddressService) List(ctx context.Context, userID string) (cache.Result[[]customers.Address], error) {
	return cache.Read(ctx, s.accessor, cache.TagAddresses, cache.AddressesKey(userID),
		func(ctx context.Context) ([]customers.Address, error) {
			return s.store.ListAddresses(ctx, userID)
		})
}

// Create adds an address. The first address, or one flagged default,
// becomes the default.
func (s *AddressService) Create(ctx context.Context, userID string, address *customers.Address) (*customers.Address, error) {
	address.ID = uuid.New().String()
	address.UserID = userID
	address.CreatedAt = time.Now().UTC()
	address.UpdatedAt = address.CreatedAt

	if address.IsDefault {
		if err := s.store.ClearDefaultAddress(ctx, userID); err != nil {
			return nil, err
		}
	}

	created, err := s.store.CreateAddress(ctx, address)
	if err != nil {
		return nil, err
	}

	s.invalidator.AddressesChanged(ctx, userID)
	return created, nil
}

// Update replaces one of the caller's addresses.
func (s *AddressService) Update(ctx context.Context, userID, addressID string, address *customers.Address) (*customers.Address, error) {
	existing, err := s.store.GetAddress(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, apperrors.NewNotFoundError("address not found")
	}

	address.ID = addressID
	address.UserID = userID
	address.CreatedAt = existing.CreatedAt
	address.UpdatedAt = time.Now().UTC()

	if address.IsDefault && !existing.IsDefault {
		if err := s.store.ClearDefaultAddress(ctx, userID); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdateAddress(ctx, addressID, address)
	if err != nil {
		return nil, err
	}

	s.invalidator.AddressesChanged(ctx, userID)
	return updated, nil
}

// Delete removes one of the caller's addresses.
func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	existing, err := s.store.GetAddress(ctx, addressID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return apperrors.NewNotFoundError("address not found")
	}

	if err := s.store.DeleteAddress(ctx, addressID); err != nil {
		return err
	}

	s.invalidator.AddressesChanged(ctx, userID)
	return nil
}
