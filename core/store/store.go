// Package store holds the cart and favorites of one shopper and is the
// only way the rest of the app changes them.
package store

import (
	"sync"

	"github.com/irsalhamdi/shop-state/core/cart"
	"github.com/irsalhamdi/shop-state/core/favorites"
	"github.com/irsalhamdi/shop-state/core/product"
	"github.com/sirupsen/logrus"
)

// Store serializes the events dispatched to a shopper's cart and favorites.
// Each event replaces the current snapshot with the one the reducer returns.
// Callers get copies, so neither earlier snapshots nor writes to a returned
// one reach the stored state.
type Store struct {
	mu   sync.Mutex
	log  logrus.FieldLogger
	cart cart.Cart
	favs favorites.Set
}

func New(log logrus.FieldLogger) *Store {
	return &Store{
		log:  log,
		cart: cart.Empty(),
		favs: favorites.Set{},
	}
}

// Cart returns the current cart snapshot.
func (s *Store) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Favorites returns the current favorites snapshot.
func (s *Store) Favorites() favorites.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favs.Clone()
}

func (s *Store) AddItem(it cart.Item, quantity int) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := cart.Add(s.cart, it, quantity)
	if err != nil {
		return s.cart.Clone(), err
	}
	s.cart = next
	s.logCart("add_item", it.ID)
	return next.Clone(), nil
}

func (s *Store) RemoveItem(id product.ID) cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = cart.Remove(s.cart, id)
	s.logCart("remove_item", id)
	return s.cart.Clone()
}

func (s *Store) ClearCart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = cart.Clear(s.cart)
	s.logCart("clear_cart", 0)
	return s.cart.Clone()
}

func (s *Store) SyncCart(remote cart.Cart) cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = cart.Sync(s.cart, remote)
	s.logCart("sync_cart", 0)
	return s.cart.Clone()
}

// ToggleFavorite flips the membership of p and reports whether p is now a
// favorite.
func (s *Store) ToggleFavorite(p product.Product) (favorites.Set, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, added := favorites.Toggle(s.favs, p)
	s.favs = next
	s.log.WithFields(logrus.Fields{
		"event":      "toggle_favorite",
		"product_id": p.ID,
		"added":      added,
		"favorites":  len(next),
	}).Debug("dispatched")
	return next.Clone(), added
}

func (s *Store) IsFavorite(id product.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return favorites.Contains(s.favs, id)
}

func (s *Store) logCart(event string, id product.ID) {
	fields := logrus.Fields{
		"event":          event,
		"total_products": s.cart.TotalProducts,
		"total_quantity": s.cart.TotalQuantity,
	}
	if id != 0 {
		fields["product_id"] = id
	}
	s.log.WithFields(fields).Debug("dispatched")
}
