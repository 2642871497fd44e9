package favorites

import (
	"context"
	"errors"
	"net/http"

	"github.com/irsalhamdi/shop-state/api/web"
	"github.com/irsalhamdi/shop-state/api/weberr"
	"github.com/irsalhamdi/shop-state/core/product"
	"github.com/irsalhamdi/shop-state/validate"
)

type State interface {
	Favorites() Set
	ToggleFavorite(p product.Product) (Set, bool)
	IsFavorite(id product.ID) bool
}

type Locate func(ctx context.Context) (State, error)

type Catalog interface {
	Fetch(ctx context.Context, id product.ID) (product.Product, error)
}

type Toggled struct {
	Added     bool   `json:"added"`
	Message   string `json:"message"`
	Favorites Set    `json:"favorites"`
}

type Membership struct {
	ID       product.ID `json:"id"`
	Favorite bool       `json:"favorite"`
}

func HandleList(locate Locate) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := locate(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		return web.Respond(ctx, w, st.Favorites(), http.StatusOK)
	}
}

func HandleToggle(locate Locate, cat Catalog) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := locate(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.Invalid(err, http.StatusBadRequest)
		}

		p, err := cat.Fetch(ctx, product.ID(id))
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return weberr.Upstream(err, "failed to load product")
		}

		set, added := st.ToggleFavorite(p)
		resp := Toggled{
			Added:     added,
			Message:   Message(added),
			Favorites: set,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

func HandleShow(locate Locate) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := locate(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.Invalid(err, http.StatusBadRequest)
		}

		m := Membership{ID: product.ID(id), Favorite: st.IsFavorite(product.ID(id))}
		return web.Respond(ctx, w, m, http.StatusOK)
	}
}
