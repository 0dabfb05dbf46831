package handlers

import (
	"net/http"
	"strconv"

	"cozyberries-backend/application/services"
	"cozyberries-backend/domain/catalog"
	"cozyberries-backend/pkg/common"
	"cozyberries-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	catalog *services.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog *services.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=200"`
	Description   string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	CategoryID    string  `json:"category_id" validate:"required"`
	ImageURL      string  `json:"image_url,omitempty" validate:"omitempty,url"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	Featured      bool    `json:"featured,omitempty"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=200"`
	Description   string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	CategoryID    string  `json:"category_id" validate:"required"`
	ImageURL      string  `json:"image_url,omitempty" validate:"omitempty,url"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	Featured      bool    `json:"featured,omitempty"`
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)
	filter := extractProductFilter(r)

	products, total, err := h.catalog.ListProducts(r.Context(), filter, params)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithMeta(w, http.StatusOK, products, &common.MetaInfo{
		Pagination: common.NewPaginationInfo(params, total),
	})
}

// GetProduct handles GET /products/{productID}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /admin/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product := &catalog.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		Featured:      req.Featured,
	}

	created, err := h.catalog.CreateProduct(r.Context(), product)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /admin/products/{productID}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req UpdateProductRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product := &catalog.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		Featured:      req.Featured,
	}

	updated, err := h.catalog.UpdateProduct(r.Context(), productID, product)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /admin/products/{productID}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	if err := h.catalog.DeleteProduct(r.Context(), productID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// Suggest handles GET /products/suggest
func (h *ProductHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		common.RespondJSON(w, http.StatusOK, []catalog.Suggestion{})
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 10 {
			limit = n
		}
	}

	suggestions, err := h.catalog.Suggest(r.Context(), query, limit)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, suggestions)
}

// ListCategories handles GET /categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, categories)
}

// SizeOptions handles GET /categories/{categoryID}/sizes
func (h *ProductHandler) SizeOptions(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")

	result, err := h.catalog.SizeOptions(r.Context(), categoryID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithMeta(w, http.StatusOK, result.Value, cacheMeta(result.Status, result.TTLRemaining))
}

func extractProductFilter(r *http.Request) catalog.Filter {
	q := r.URL.Query()

	filter := catalog.Filter{
		CategoryID: q.Get("category"),
		Search:     q.Get("search"),
	}

	if raw := q.Get("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			filter.MinPrice = &v
		}
	}
	if raw := q.Get("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			filter.MaxPrice = &v
		}
	}
	if raw := q.Get("featured"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.Featured = &v
		}
	}

	return filter
}
