package supabase

import (
	"context"

	"github.com/supabase-community/postgrest-go"

	"cozyberries-backend/domain/reviews"
	apperrors "cozyberries-backend/pkg/errors"
)

// UpsertReview inserts a review or replaces the user's existing review of
// the same product; one review per user per product is a table constraint.
func (s *Store) UpsertReview(ctx context.Context, review *reviews.Review) (*reviews.Review, error) {
	var stored []reviews.Review
	_, err := s.client.From(tableReviews).
		Insert(review, true, "product_id,user_id", "representation", "").
		ExecuteTo(&stored)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to save review", err)
	}
	if len(stored) == 0 {
		return nil, apperrors.NewDatabaseError("review upsert returned no row", nil)
	}
	return &stored[0], nil
}

// ListReviews returns a product's reviews, newest first.
func (s *Store) ListReviews(ctx context.Context, productID string) ([]reviews.Review, error) {
	var list []reviews.Review
	_, err := s.client.From(tableReviews).
		Select("*", "", false).
		Eq("product_id", productID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&list)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to list reviews", err)
	}
	return list, nil
}

// DeleteReview removes a review; callers enforce that only the author or an
// admin does this.
func (s *Store) DeleteReview(ctx context.Context, reviewID string) error {
	_, _, err := s.client.From(tableReviews).
		Delete("", "").
		Eq("id", reviewID).
		Execute()
	if err != nil {
		return apperrors.NewDatabaseError("failed to delete review", err)
	}
	return nil
}
