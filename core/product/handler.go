package product

import (
	"context"
	"errors"
	"net/http"

	"github.com/irsalhamdi/shop-state/api/web"
	"github.com/irsalhamdi/shop-state/api/weberr"
	"github.com/irsalhamdi/shop-state/validate"
)

type Catalog interface {
	Search(ctx context.Context, q string) ([]Product, error)
	Fetch(ctx context.Context, id ID) (Product, error)
}

// Marker tells whether the shopper marked a product as favorite.
type Marker interface {
	IsFavorite(id ID) bool
}

type LocateMarker func(ctx context.Context) (Marker, error)

type Detail struct {
	Product
	AverageRating float64 `json:"averageRating"`
	Favorite      bool    `json:"favorite"`
}

func HandleList(cat Catalog) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()

		products, err := cat.Search(ctx, q.Get("q"))
		if err != nil {
			return weberr.Upstream(err, "failed to fetch products, please try again")
		}

		return web.Respond(ctx, w, NewListing(products, q.Get("category")), http.StatusOK)
	}
}

func HandleShow(cat Catalog, locate LocateMarker) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.Invalid(err, http.StatusBadRequest)
		}

		p, err := cat.Fetch(ctx, ID(id))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return weberr.Upstream(err, "failed to fetch product, please try again")
		}

		d := Detail{Product: p, AverageRating: p.AverageRating()}
		if m, err := locate(ctx); err == nil {
			d.Favorite = m.IsFavorite(p.ID)
		}

		return web.Respond(ctx, w, d, http.StatusOK)
	}
}
