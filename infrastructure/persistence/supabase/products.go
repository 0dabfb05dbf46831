package supabase

import (
	"context"
	"strconv"

	"github.com/supabase-community/postgrest-go"

	"cozyberries-backend/domain/catalog"
	apperrors "cozyberries-backend/pkg/errors"
	"cozyberries-backend/pkg/common"
)

// ListProducts returns a filtered, paginated product page plus the total
// row count for the filter.
func (s *Store) ListProducts(ctx context.Context, filter catalog.Filter, page common.PaginationParams) ([]catalog.Product, int, error) {
	query := s.client.From(tableProducts).Select("*", "exact", false)

	if filter.CategoryID != "" {
		query = query.Eq("category_id", filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Gte("price", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		query = query.Lte("price", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	if filter.Featured != nil {
		query = query.Eq("featured", strconv.FormatBool(*filter.Featured))
	}
	if filter.Search != "" {
		query = query.Ilike("name", "%"+filter.Search+"%")
	}

	sortColumn := "created_at"
	switch page.Sort {
	case "price", "name", "created_at":
		sortColumn = page.Sort
	}
	query = query.Order(sortColumn, &postgrest.OrderOpts{Ascending: page.Order == "asc"})

	from := page.Offset()
	query = query.Range(from, from+page.PageSize-1, "")

	var products []catalog.Product
	count, err := query.ExecuteTo(&products)
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError("failed to list products", err)
	}
	return products, int(count), nil
}

// GetProduct returns one product by id.
func (s *Store) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var products []catalog.Product
	_, err := s.client.From(tableProducts).
		Select("*", "", false).
		Eq("id", id).
		Limit(1, "").
		ExecuteTo(&products)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to fetch product", err)
	}
	if len(products) == 0 {
		return nil, apperrors.NewNotFoundError("product not found")
	}
	return &products[0], nil
}

// CreateProduct inserts a product and returns the stored row.
func (s *Store) CreateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	var inserted []catalog.Product
	_, err := s.client.From(tableProducts).
		Insert(product, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to create product", err)
	}
	if len(inserted) == 0 {
		return nil, apperrors.NewDatabaseError("product insert returned no row", nil)
	}
	return &inserted[0], nil
}

// UpdateProduct replaces the mutable fields of a product.
func (s *Store) UpdateProduct(ctx context.Context, id string, product *catalog.Product) (*catalog.Product, error) {
	var updated []catalog.Product
	_, err := s.client.From(tableProducts).
		Update(product, "representation", "").
		Eq("id", id).
		ExecuteTo(&updated)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to update product", err)
	}
	if len(updated) == 0 {
		return nil, apperrors.NewNotFoundError("product not found")
	}
	return &updated[0], nil
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	_, _, err := s.client.From(tableProducts).
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return apperrors.NewDatabaseError("failed to delete product", err)
	}
	return nil
}

// SearchSuggestions returns lightweight product matches for type-ahead.
func (s *Store) SearchSuggestions(ctx context.Context, prefix string, limit int) ([]catalog.Suggestion, error) {
	if limit <= 0 || limit > 10 {
		limit = 10
	}

	var suggestions []catalog.Suggestion
	_, err := s.client.From(tableProducts).
		Select("id,name,image_url", "", false).
		Ilike("name", prefix+"%").
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		Limit(limit, "").
		ExecuteTo(&suggestions)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to search products", err)
	}
	return suggestions, nil
}

// ListCategories returns the full category tree, roots first.
func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	_, err := s.client.From(tableCategories).
		Select("*", "", false).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&categories)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to list categories", err)
	}
	return categories, nil
}

// ListSizeOptions returns the size options for a category in display order.
func (s *Store) ListSizeOptions(ctx context.Context, categoryID string) ([]catalog.SizeOption, error) {
	var sizes []catalog.SizeOption
	_, err := s.client.From(tableSizeOptions).
		Select("*", "", false).
		Eq("category_id", categoryID).
		Order("sort_order", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&sizes)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to list size options", err)
	}
	return sizes, nil
}
