package catalog

import "time"

// Product is a storefront catalog item.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	CategoryID    string    `json:"category_id"`
	ImageURL      string    `json:"image_url,omitempty"`
	StockQuantity int       `json:"stock_quantity"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InStock reports whether the product can currently be ordered.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// Category groups products; a nil ParentID marks a root category.
type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ParentID *string `json:"parent_id,omitempty"`
}

// SizeOption is a selectable garment size within a category.
type SizeOption struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Label      string `json:"label"`
	SortOrder  int    `json:"sort_order"`
}

// Suggestion is a lightweight search result for type-ahead.
type Suggestion struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// Filter narrows product listings.
type Filter struct {
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
	Featured   *bool
	Search     string
}
