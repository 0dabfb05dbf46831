package reviews

import "time"

// Review is a customer rating of a product, at most one per user per product.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	PhotoURLs []string  `json:"photo_urls,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingSummary is the aggregate rating shown on product pages.
type RatingSummary struct {
	ProductID string  `json:"product_id"`
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
}

// Summarize computes the aggregate for a product's reviews.
func Summarize(productID string, list []Review) RatingSummary {
	summary := RatingSummary{ProductID: productID, Count: len(list)}
	if len(list) == 0 {
		return summary
	}
	total := 0
	for _, r := range list {
		total += r.Rating
	}
	summary.Average = float64(total) / float64(len(list))
	return summary
}
