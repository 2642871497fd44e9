package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/shop-state/api/web"
	"github.com/irsalhamdi/shop-state/api/weberr"
	"github.com/irsalhamdi/shop-state/core/claims"
	"github.com/irsalhamdi/shop-state/core/product"
	"github.com/irsalhamdi/shop-state/validate"
)

// State is the cart side of a shopper's state container.
type State interface {
	Cart() Cart
	AddItem(it Item, quantity int) (Cart, error)
	RemoveItem(id product.ID) Cart
	ClearCart() Cart
	SyncCart(remote Cart) Cart
}

// Locate finds the State of the shopper behind ctx.
type Locate func(ctx context.Context) (State, error)

type Catalog interface {
	Fetch(ctx context.Context, id product.ID) (product.Product, error)
	AddToCart(ctx context.Context, userID int, lines []ItemNew) (Cart, error)
}

func HandleShow(locate Locate) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := locate(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		return web.Respond(ctx, w, st.Cart(), http.StatusOK)
	}
}

func HandleTotal(locate Locate) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := locate(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		return web.Respond(ctx, w, Summary(st.Cart()), http.StatusOK)
	}
}

func HandleDelete(locate Locate) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := locate(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		return web.Respond(ctx, w, st.ClearCart(), http.StatusOK)
	}
}

// HandleCreateItem adds a catalog product to the cart. With syncRemote the
// line is posted to the remote cart service and its answer is merged in
// place of the local add.
func HandleCreateItem(locate Locate, cat Catalog, syncRemote bool) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		st, err := locate(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err, http.StatusBadRequest)
		}

		if in.Quantity == 0 {
			in.Quantity = 1
		}

		p, err := cat.Fetch(ctx, product.ID(in.ProductID))
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return weberr.Upstream(err, "failed to add to cart")
		}

		if syncRemote {
			remote, err := cat.AddToCart(ctx, clm.UserID, []ItemNew{in})
			if err != nil {
				return weberr.Upstream(err, "failed to add to cart")
			}
			return web.Respond(ctx, w, st.SyncCart(remote), http.StatusOK)
		}

		c, err := st.AddItem(NewItem(p), in.Quantity)
		if err != nil {
			if errors.Is(err, ErrInvalidQuantity) {
				return weberr.Invalid(err, http.StatusUnprocessableEntity)
			}
			return fmt.Errorf("adding product[%d]: %w", p.ID, err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDeleteItem(locate Locate) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := locate(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.Invalid(err, http.StatusBadRequest)
		}

		return web.Respond(ctx, w, st.RemoveItem(product.ID(id)), http.StatusOK)
	}
}

// HandleSync merges a remote cart sent by the client into its cart.
func HandleSync(locate Locate) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := locate(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		var in Remote
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		remote, err := in.Normalize()
		if err != nil {
			return weberr.Invalid(err, http.StatusBadRequest)
		}

		return web.Respond(ctx, w, st.SyncCart(remote), http.StatusOK)
	}
}
