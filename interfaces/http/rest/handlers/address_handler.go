package handlers

import (
	"net/http"

	"cozyberries-backend/application/services"
	"cozyberries-backend/domain/customers"
	"cozyberries-backend/pkg/common"
	"cozyberries-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddressHandler handles shipping address HTTP requests
type AddressHandler struct {
	addresses *services.AddressService
	logger    *zap.Logger
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addresses *services.AddressService, logger *zap.Logger) *AddressHandler {
	return &AddressHandler{
		addresses: addresses,
		logger:    logger,
	}
}

// AddressRequest represents the request body for creating or updating an address
type AddressRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Line1      string `json:"line1" validate:"required,min=1,max=200"`
	Line2      string `json:"line2,omitempty" validate:"omitempty,max=200"`
	City       string `json:"city" validate:"required,min=1,max=100"`
	State      string `json:"state" validate:"required,min=1,max=100"`
	PostalCode string `json:"postal_code" validate:"required,min=4,max=12"`
	Phone      string `json:"phone" validate:"required,min=7,max=20"`
	IsDefault  bool   `json:"is_default,omitempty"`
}

func (req AddressRequest) toDomain() *customers.Address {
	return &customers.Address{
		Name:       req.Name,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	}
}

// ListAddresses handles GET /addresses
func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	result, err := h.addresses.List(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithMeta(w, http.StatusOK, result.Value, cacheMeta(result.Status, result.TTLRemaining))
}

// CreateAddress handles POST /addresses
func (h *AddressHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req AddressRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<18); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	created, err := h.addresses.Create(r.Context(), user.UserID, req.toDomain())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, created)
}

// UpdateAddress handles PUT /addresses/{addressID}
func (h *AddressHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	addressID := chi.URLParam(r, "addressID")

	var req AddressRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<18); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updated, err := h.addresses.Update(r.Context(), user.UserID, addressID, req.toDomain())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, updated)
}

// DeleteAddress handles DELETE /addresses/{addressID}
func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	addressID := chi.URLParam(r, "addressID")

	if err := h.addresses.Delete(r.Context(), user.UserID, addressID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "address deleted"})
}
