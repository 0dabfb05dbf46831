package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cozyberries-backend/application/ports"
	"cozyberries-backend/domain/reviews"
	"cozyberries-backend/infrastructure/cache"
	apperrors "cozyberries-backend/pkg/errors"
)

// ReviewService handles product reviews and the cached rating aggregate.
type ReviewService struct {
	store       ports.ReviewStore
	catalog     ports.CatalogStore
	accessor    *cache.Accessor
	invalidator *cache.Invalidator
}

// NewReviewService creates the review service.
func NewReviewService(store ports.ReviewStore, catalog ports.CatalogStore, accessor *cache.Accessor, invalidator *cache.Invalidator) *ReviewService {
	return &ReviewService{
		store:       store,
		catalog:     catalog,
		accessor:    accessor,
		invalidator: invalidator,
	}
}

// Submit creates or replaces the caller's review of a product.
func (s *ReviewService) Submit(ctx context.Context, userID string, review *reviews.Review) (*reviews.Review, error) {
	if review.Rating < 1 || review.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	if _, err := s.catalog.GetProduct(ctx, review.ProductID); err != nil {
		return nil, err
	}

	review.ID = uuid.New().String()
	review.UserID = userID
	review.CreatedAt = time.Now().UTC()
	review.UpdatedAt = review.CreatedAt

	stored, err := s.store.UpsertReview(ctx, review)
	if err != nil {
		return nil, err
	}

	s.invalidator.RatingsChanged(ctx, review.ProductID)
	return stored, nil
}

// ListByProduct returns a product's reviews straight from the
// source-of-record; only the aggregate is cached.
func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]reviews.Review, error) {
	return s.store.ListReviews(ctx, productID)
}

// Summary returns the cached rating aggregate for a product.
func (s *ReviewService) Summary(ctx context.Context, productID string) (cache.Result[reviews.RatingSummary], error) {
	return cache.Read(ctx, s.accessor, cache.TagRatings, cache.RatingsKey(productID),
		func(ctx context.Context) (reviews.RatingSummary, error) {
			list, err := s.store.ListReviews(ctx, productID)
			if err != nil {
				return reviews.RatingSummary{}, err
			}
			return reviews.Summarize(productID, list), nil
		})
}
