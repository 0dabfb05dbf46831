package handlers

import (
	"net/http"

	"cozyberries-backend/application/services"
	"cozyberries-backend/domain/orders"
	"cozyberries-backend/pkg/common"
	"cozyberries-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	orders *services.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	AddressID string             `json:"address_id" validate:"required"`
	Items     []OrderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

// OrderItemRequest is a single order line in a create request. Prices are
// never accepted from the client; they are resolved against the catalog.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size,omitempty" validate:"omitempty,max=20"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=99"`
}

// ConfirmUPIRequest represents the request body for confirming a UPI payment
type ConfirmUPIRequest struct {
	UPIReference string `json:"upi_reference" validate:"required,min=4,max=100"`
}

// UpdateStatusRequest represents the admin request to move an order along
// its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	items := make([]orders.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orders.Item{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orders.Create(r.Context(), user.UserID, req.AddressID, items)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	result, err := h.orders.List(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithMeta(w, http.StatusOK, result.Value, cacheMeta(result.Status, result.TTLRemaining))
}

// GetOrder handles GET /orders/{orderID}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	orderID := chi.URLParam(r, "orderID")

	result, err := h.orders.Get(r.Context(), user.UserID, orderID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithMeta(w, http.StatusOK, result.Value, cacheMeta(result.Status, result.TTLRemaining))
}

// CancelOrder handles POST /orders/{orderID}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orders.Cancel(r.Context(), user.UserID, orderID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, order)
}

// ConfirmUPIPayment handles POST /orders/{orderID}/payments/upi
func (h *OrderHandler) ConfirmUPIPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	orderID := chi.URLParam(r, "orderID")

	var req ConfirmUPIRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<16); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	order, err := h.orders.ConfirmUPIPayment(r.Context(), user.UserID, orderID, req.UPIReference)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, order)
}

// AdminGetOrder handles GET /admin/orders/{orderID}
func (h *OrderHandler) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orders.GetAsAdmin(r.Context(), orderID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, order)
}

// AdminUpdateStatus handles PATCH /admin/orders/{orderID}/status
func (h *OrderHandler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req UpdateStatusRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<16); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, orders.Status(req.Status))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, order)
}
