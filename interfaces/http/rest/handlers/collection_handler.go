package handlers

import (
	"net/http"

	"cozyberries-backend/application/services"
	"cozyberries-backend/domain/collections"
	"cozyberries-backend/pkg/common"
	"cozyberries-backend/pkg/utils"

	"go.uber.org/zap"
)

// CollectionHandler handles cart and wishlist HTTP requests. One handler
// serves both kinds; the route decides which collection it touches.
type CollectionHandler struct {
	collections *services.CollectionService
	kind        collections.Kind
	logger      *zap.Logger
}

// NewCollectionHandler creates a handler bound to one collection kind
func NewCollectionHandler(svc *services.CollectionService, kind collections.Kind, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		collections: svc,
		kind:        kind,
		logger:      logger,
	}
}

// ReplaceCollectionRequest carries the full client snapshot. Replacement is
// wholesale: the server persists exactly what the client sends.
type ReplaceCollectionRequest struct {
	Items []CollectionItemRequest `json:"items" validate:"max=200,dive"`
}

// CollectionItemRequest is a single line in a replace request
type CollectionItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Price     float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Size      string  `json:"size,omitempty" validate:"omitempty,max=20"`
	ImageURL  string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Quantity  int     `json:"quantity" validate:"required,gt=0,lte=99"`
}

// Get handles GET /cart and GET /wishlist
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	result, err := h.collections.Get(r.Context(), user.UserID, h.kind)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithMeta(w, http.StatusOK, result.Value, cacheMeta(result.Status, result.TTLRemaining))
}

// Replace handles PUT /cart and PUT /wishlist
func (h *CollectionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req ReplaceCollectionRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	items := make(collections.Collection, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, collections.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Size:      item.Size,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
		})
	}

	saved, err := h.collections.Replace(r.Context(), user.UserID, h.kind, items)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, saved)
}

// Clear handles DELETE /cart and DELETE /wishlist
func (h *CollectionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	if err := h.collections.Clear(r.Context(), user.UserID, h.kind); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "collection cleared"})
}
