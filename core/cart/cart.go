package cart

import (
	"errors"

	"github.com/irsalhamdi/shop-state/core/product"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned when an item is added with a quantity
	// lower than one. The cart is left untouched.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrMalformedPayload is returned when a remote cart lacks one of its
	// required numeric fields.
	ErrMalformedPayload = errors.New("malformed cart payload")
)

// Cart is an immutable snapshot. Every operation of this package returns a
// new Cart with its aggregates recomputed from Items.
type Cart struct {
	ID              int             `json:"id"`
	UserID          int             `json:"userId"`
	Items           []Item          `json:"products"`
	Total           decimal.Decimal `json:"total"`
	DiscountedTotal decimal.Decimal `json:"discountedTotal"`
	TotalQuantity   int             `json:"totalQuantity"`
	TotalProducts   int             `json:"totalProducts"`
}

type Item struct {
	ID                 product.ID      `json:"id"`
	Title              string          `json:"title"`
	Price              decimal.Decimal `json:"price"`
	Quantity           int             `json:"quantity"`
	Total              decimal.Decimal `json:"total"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	DiscountedPrice    decimal.Decimal `json:"discountedPrice"`
	Thumbnail          string          `json:"thumbnail"`
}

type ItemNew struct {
	ProductID int `json:"id" validate:"required,gte=1"`
	Quantity  int `json:"quantity" validate:"omitempty,gte=1"`
}

// Amount is the cart total the checkout badge shows.
type Amount struct {
	Total           decimal.Decimal `json:"total"`
	DiscountedTotal decimal.Decimal `json:"discountedTotal"`
	TotalProducts   int             `json:"totalProducts"`
	TotalQuantity   int             `json:"totalQuantity"`
}

// Empty returns the cart every session starts with.
func Empty() Cart {
	return Cart{
		Items:           []Item{},
		Total:           decimal.Zero,
		DiscountedTotal: decimal.Zero,
	}
}

// NewItem builds the line item for p. Discounts are not tracked for items
// added locally, so both discount fields start at zero.
func NewItem(p product.Product) Item {
	return Item{
		ID:                 p.ID,
		Title:              p.Title,
		Price:              p.Price,
		DiscountPercentage: decimal.Zero,
		DiscountedPrice:    decimal.Zero,
		Thumbnail:          p.Thumbnail,
	}
}

// Find returns the item matching id.
func (c Cart) Find(id product.ID) (Item, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Clone returns a copy of c sharing no items with it.
func (c Cart) Clone() Cart {
	c.Items = clone(c.Items)
	return c
}

func (it Item) effectivePrice() decimal.Decimal {
	if it.DiscountedPrice.IsPositive() {
		return it.DiscountedPrice
	}
	return it.Price
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
