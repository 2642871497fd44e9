// Package favorites keeps the products a shopper marked as favorite.
package favorites

import (
	"github.com/irsalhamdi/shop-state/core/product"
)

// Set is an ordered list of products, unique by product ID. Order follows
// insertion so the favorites screen lists the oldest first.
type Set []product.Product

// Toggle removes p from s when a product with the same ID is present, and
// appends it otherwise. added reports whether p is in the returned set.
func Toggle(s Set, p product.Product) (Set, bool) {
	next := make(Set, 0, len(s)+1)
	for _, f := range s {
		if f.ID != p.ID {
			next = append(next, f)
		}
	}

	if len(next) < len(s) {
		return next, false
	}
	return append(next, p), true
}

// Contains reports whether a product with id is in s.
func Contains(s Set, id product.ID) bool {
	for _, f := range s {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy of s sharing no elements with it.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// IDs lists the product IDs of s in order.
func IDs(s Set) []product.ID {
	ids := make([]product.ID, 0, len(s))
	for _, f := range s {
		ids = append(ids, f.ID)
	}
	return ids
}

// Message is the notice shown to the shopper after a toggle.
func Message(added bool) string {
	if added {
		return "Added to favorites"
	}
	return "Removed from favorites"
}
