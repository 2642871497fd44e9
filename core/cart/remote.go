package cart

import (
	"fmt"

	"github.com/irsalhamdi/shop-state/core/product"
	"github.com/irsalhamdi/shop-state/validate"
	"github.com/shopspring/decimal"
)

// Remote is a cart as the remote cart service sends it. Discount fields may
// be absent and are defaulted by Normalize. The aggregates the service sends
// along are accepted but never trusted.
type Remote struct {
	ID              *int             `json:"id" validate:"required"`
	UserID          *int             `json:"userId" validate:"required"`
	Products        []RemoteItem     `json:"products" validate:"dive"`
	Total           *decimal.Decimal `json:"total"`
	DiscountedTotal *decimal.Decimal `json:"discountedTotal"`
	TotalProducts   int              `json:"totalProducts"`
	TotalQuantity   int              `json:"totalQuantity"`
}

type RemoteItem struct {
	ID                 *int             `json:"id" validate:"required,gte=1"`
	Title              string           `json:"title"`
	Price              *decimal.Decimal `json:"price" validate:"required"`
	Quantity           *int             `json:"quantity" validate:"required,gte=1"`
	Total              *decimal.Decimal `json:"total"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage"`
	DiscountedPrice    *decimal.Decimal `json:"discountedPrice"`
	DiscountedTotal    *decimal.Decimal `json:"discountedTotal"`
	Thumbnail          string           `json:"thumbnail"`
}

// Normalize checks the required fields of r and converts it into a Cart.
// Item totals are recomputed, never taken from the payload.
func (r Remote) Normalize() (Cart, error) {
	if err := validate.Check(r); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	c := Empty()
	c.ID = *r.ID
	c.UserID = *r.UserID

	items := make([]Item, 0, len(r.Products))
	for _, ri := range r.Products {
		items = append(items, Item{
			ID:                 product.ID(*ri.ID),
			Title:              ri.Title,
			Price:              *ri.Price,
			Quantity:           *ri.Quantity,
			Total:              lineTotal(*ri.Price, *ri.Quantity),
			DiscountPercentage: orZero(ri.DiscountPercentage),
			DiscountedPrice:    orZero(ri.DiscountedPrice),
			Thumbnail:          ri.Thumbnail,
		})
	}
	c.Items = items

	return recompute(c), nil
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
