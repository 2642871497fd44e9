package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/shop-state/api/middleware"
	"github.com/irsalhamdi/shop-state/api/web"
	"github.com/irsalhamdi/shop-state/catalog"
	"github.com/irsalhamdi/shop-state/core/cart"
	"github.com/irsalhamdi/shop-state/core/favorites"
	"github.com/irsalhamdi/shop-state/core/product"
	"github.com/irsalhamdi/shop-state/core/session"
	"github.com/irsalhamdi/shop-state/core/store"
	"github.com/irsalhamdi/shop-state/rate"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	Session    *scs.SessionManager
	Registry   *store.Registry
	Catalog    *catalog.Client
	Limiter    *rate.Limiter
	UserID     int
	SyncCart   bool
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, session.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, session.Identify(cfg.Session, cfg.UserID))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	cartState := func(ctx context.Context) (cart.State, error) {
		return cfg.Registry.FromContext(ctx)
	}
	favState := func(ctx context.Context) (favorites.State, error) {
		return cfg.Registry.FromContext(ctx)
	}
	marker := func(ctx context.Context) (product.Marker, error) {
		return cfg.Registry.FromContext(ctx)
	}

	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(cfg.Catalog, marker))
	a.Handle(http.MethodGet, "/products", product.HandleList(cfg.Catalog))

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cartState))
	a.Handle(http.MethodGet, "/cart/total", cart.HandleTotal(cartState))
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(cartState))
	a.Handle(http.MethodPut, "/cart/items", cart.HandleCreateItem(cartState, cfg.Catalog, cfg.SyncCart))
	a.Handle(http.MethodDelete, "/cart/items/{id}", cart.HandleDeleteItem(cartState))
	a.Handle(http.MethodPost, "/cart/sync", cart.HandleSync(cartState))

	a.Handle(http.MethodGet, "/favorites", favorites.HandleList(favState))
	a.Handle(http.MethodGet, "/favorites/{id}", favorites.HandleShow(favState))
	a.Handle(http.MethodPut, "/favorites/{id}", favorites.HandleToggle(favState, cfg.Catalog))

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
