package collections

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies which user collection a value belongs to.
type Kind string

const (
	KindCart     Kind = "cart"
	KindWishlist Kind = "wishlist"
)

// Valid reports whether k is a known collection kind.
func (k Kind) Valid() bool {
	return k == KindCart || k == KindWishlist
}

// LineItem is one entry in a cart or wishlist, keyed by product id.
type LineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Size      string  `json:"size,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Collection is an ordered list of line items. Order is presentation order;
// identity is the product id.
type Collection []LineItem

// Clone returns a copy safe to mutate.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// IndexOf returns the position of productID, or -1.
func (c Collection) IndexOf(productID string) int {
	for i, item := range c {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Similar reports whether two collections hold exactly the same product ids
// with exactly the same quantities, regardless of order. A similar pair is a
// refresh of the same state, not a genuine divergence.
func (c Collection) Similar(other Collection) bool {
	if len(c) != len(other) {
		return false
	}
	quantities := make(map[string]int, len(c))
	for _, item := range c {
		quantities[item.ProductID] += item.Quantity
	}
	for _, item := range other {
		want, ok := quantities[item.ProductID]
		if !ok || want != item.Quantity {
			return false
		}
		delete(quantities, item.ProductID)
	}
	return len(quantities) == 0
}

// Fingerprint is a deterministic digest of product ids and quantities, used
// to skip pushing a snapshot identical to one already in flight.
func (c Collection) Fingerprint() string {
	pairs := make([]string, 0, len(c))
	for _, item := range c {
		pairs = append(pairs, fmt.Sprintf("%s=%d", item.ProductID, item.Quantity))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// Merge reconciles a locally persisted collection with its remote
// counterpart at sign-in.
//
// If the two are similar the remote copy wins outright: the local copy is
// just a cached view of the same state, and summing would double every
// quantity on each reload. Otherwise items are merged by product id: an id
// on one side only is kept, an id on both sides keeps the remote item's
// fields with the quantities summed. Local order is preserved, remote-only
// items follow in remote order.
func Merge(local, remote Collection) Collection {
	if local.Similar(remote) {
		return remote.Clone()
	}

	remoteByID := make(map[string]LineItem, len(remote))
	for _, item := range remote {
		remoteByID[item.ProductID] = item
	}

	merged := make(Collection, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(local))

	for _, item := range local {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		if remoteItem, ok := remoteByID[item.ProductID]; ok {
			remoteItem.Quantity += item.Quantity
			merged = append(merged, remoteItem)
		} else {
			merged = append(merged, item)
		}
	}

	for _, item := range remote {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			merged = append(merged, item)
		}
	}

	return merged
}
