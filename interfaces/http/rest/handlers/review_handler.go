package handlers

import (
	"net/http"

	"cozyberries-backend/application/services"
	"cozyberries-backend/domain/reviews"
	"cozyberries-backend/pkg/common"
	"cozyberries-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReviewHandler handles product review HTTP requests
type ReviewHandler struct {
	reviews *services.ReviewService
	logger  *zap.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger,
	}
}

// SubmitReviewRequest represents the request body for submitting a review
type SubmitReviewRequest struct {
	Rating    int      `json:"rating" validate:"required,gte=1,lte=5"`
	Title     string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Comment   string   `json:"comment,omitempty" validate:"omitempty,max=5000"`
	PhotoURLs []string `json:"photo_urls,omitempty" validate:"omitempty,max=5,dive,url"`
}

// SubmitReview handles POST /products/{productID}/reviews. A repeat
// submission from the same user replaces their earlier review.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "productID")

	var req SubmitReviewRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	review := &reviews.Review{
		ProductID: productID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		PhotoURLs: req.PhotoURLs,
	}

	saved, err := h.reviews.Submit(r.Context(), user.UserID, review)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, saved)
}

// ListReviews handles GET /products/{productID}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	list, err := h.reviews.ListByProduct(r.Context(), productID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, list)
}

// RatingSummary handles GET /products/{productID}/rating
func (h *ReviewHandler) RatingSummary(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	result, err := h.reviews.Summary(r.Context(), productID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithMeta(w, http.StatusOK, result.Value, cacheMeta(result.Status, result.TTLRemaining))
}
