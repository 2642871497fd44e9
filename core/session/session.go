package session

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/shop-state/api/web"
	"github.com/irsalhamdi/shop-state/core/claims"
	"github.com/irsalhamdi/shop-state/validate"
)

const ownerKey = "owner"

// LoadAndSave loads the session of the request and commits it once the
// handler returns.
func LoadAndSave(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var herr error
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				herr = handler(r.Context(), w, r)
			})

			sm.LoadAndSave(next).ServeHTTP(w, r.WithContext(ctx))
			return herr
		}
		return h
	}
	return m
}

// Identify gives every session a stable owner and stores the claims of the
// shopper in the context. Sessions without an owner get a new one.
func Identify(sm *scs.SessionManager, userID int) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			owner := sm.GetString(ctx, ownerKey)
			if owner == "" {
				owner = validate.GenerateID()
				sm.Put(ctx, ownerKey, owner)
			}

			ctx = claims.Set(ctx, claims.Claims{Owner: owner, UserID: userID})
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
