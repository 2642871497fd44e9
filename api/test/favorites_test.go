package test

import (
	"net/http"
	"testing"

	"github.com/irsalhamdi/shop-state/core/favorites"
)

func TestFavorites(t *testing.T) {
	env := NewTestEnv(t, envOpts{})

	var set favorites.Set
	env.do(t, http.MethodGet, "/favorites", nil, http.StatusOK, &set)
	if len(set) != 0 {
		t.Fatalf("expected no favorites, but got %d", len(set))
	}

	var tg favorites.Toggled
	env.do(t, http.MethodPut, "/favorites/2", nil, http.StatusOK, &tg)
	if !tg.Added || tg.Message != "Added to favorites" || len(tg.Favorites) != 1 {
		t.Fatalf("unexpected toggle %+v", tg)
	}
	if tg.Favorites[0].Title != "Eyeshadow Palette with Mirror" {
		t.Fatalf("expected the full product to be kept, but got %+v", tg.Favorites[0])
	}

	env.do(t, http.MethodPut, "/favorites/16", nil, http.StatusOK, &tg)

	var m favorites.Membership
	env.do(t, http.MethodGet, "/favorites/2", nil, http.StatusOK, &m)
	if !m.Favorite || m.ID != 2 {
		t.Fatalf("expected product[2] to be a favorite, but got %+v", m)
	}

	env.do(t, http.MethodPut, "/favorites/2", nil, http.StatusOK, &tg)
	if tg.Added || tg.Message != "Removed from favorites" {
		t.Fatalf("unexpected toggle %+v", tg)
	}
	if len(tg.Favorites) != 1 || tg.Favorites[0].ID != 16 {
		t.Fatalf("expected only the apple left, but got %+v", favorites.IDs(tg.Favorites))
	}

	env.do(t, http.MethodGet, "/favorites/2", nil, http.StatusOK, &m)
	if m.Favorite {
		t.Fatal("expected product[2] not to be a favorite anymore")
	}

	env.do(t, http.MethodPut, "/favorites/999", nil, http.StatusNotFound, nil)
	env.do(t, http.MethodGet, "/favorites", nil, http.StatusOK, &set)
	if len(set) != 1 {
		t.Fatalf("expected one favorite, but got %d", len(set))
	}
}

func TestFavoritesArePerSession(t *testing.T) {
	env := NewTestEnv(t, envOpts{})
	env.do(t, http.MethodPut, "/favorites/1", nil, http.StatusOK, nil)

	var m favorites.Membership
	env.NewSession(t).do(t, http.MethodGet, "/favorites/1", nil, http.StatusOK, &m)
	if m.Favorite {
		t.Fatal("expected favorites not to leak between sessions")
	}
}
