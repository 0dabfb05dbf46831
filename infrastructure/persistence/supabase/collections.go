package supabase

import (
	"context"
	"time"

	"cozyberries-backend/domain/collections"
	apperrors "cozyberries-backend/pkg/errors"
)

// collectionRow is the storage shape of a cart or wishlist: one row per
// user holding the whole collection as jsonb. The collection is only ever
// replaced wholesale, matching the cache's full-replacement rule.
type collectionRow struct {
	UserID    string                  `json:"user_id"`
	Items     collections.Collection  `json:"items"`
	UpdatedAt time.Time               `json:"updated_at"`
}

func collectionTable(kind collections.Kind) string {
	if kind == collections.KindWishlist {
		return tableWishlists
	}
	return tableCarts
}

// GetCollection returns a user's cart or wishlist. A user with no row yet
// gets an empty collection, not an error.
func (s *Store) GetCollection(ctx context.Context, userID string, kind collections.Kind) (collections.Collection, error) {
	var rows []collectionRow
	_, err := s.client.From(collectionTable(kind)).
		Select("*", "", false).
		Eq("user_id", userID).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to fetch "+string(kind), err)
	}
	if len(rows) == 0 {
		return collections.Collection{}, nil
	}
	return rows[0].Items, nil
}

// ReplaceCollection overwrites a user's cart or wishlist with the given
// snapshot, creating the row on first write.
func (s *Store) ReplaceCollection(ctx context.Context, userID string, kind collections.Kind, items collections.Collection) error {
	row := collectionRow{
		UserID:    userID,
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	}

	_, _, err := s.client.From(collectionTable(kind)).
		Insert(row, true, "user_id", "", "").
		Execute()
	if err != nil {
		return apperrors.NewDatabaseError("failed to replace "+string(kind), err)
	}
	return nil
}

// ClearCollection removes a user's cart or wishlist row.
func (s *Store) ClearCollection(ctx context.Context, userID string, kind collections.Kind) error {
	_, _, err := s.client.From(collectionTable(kind)).
		Delete("", "").
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return apperrors.NewDatabaseError("failed to clear "+string(kind), err)
	}
	return nil
}
