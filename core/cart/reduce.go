package cart

import (
	"fmt"

	"github.com/irsalhamdi/shop-state/core/product"
	"github.com/shopspring/decimal"
)

// Add merges quantity units of it into c. An item already in the cart has
// its quantity increased and its total recomputed from its own price.
func Add(c Cart, it Item, quantity int) (Cart, error) {
	if quantity <= 0 {
		return c, fmt.Errorf("adding product[%d] with quantity %d: %w", it.ID, quantity, ErrInvalidQuantity)
	}

	items := clone(c.Items)
	items = merge(items, it, quantity)

	c.Items = items
	return recompute(c), nil
}

// Remove drops the item matching id. Removing an absent item is a no-op.
func Remove(c Cart, id product.ID) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ID != id {
			items = append(items, it)
		}
	}

	c.Items = items
	return recompute(c)
}

// Clear empties c, keeping the identity of the cart and its owner.
func Clear(c Cart) Cart {
	cleared := Empty()
	cleared.ID = c.ID
	cleared.UserID = c.UserID
	return cleared
}

// Sync merges a remote cart into c. Quantities are summed, not replaced, so
// merging the same remote cart twice counts its items twice. The cart and
// user ids are taken from remote.
func Sync(c Cart, remote Cart) Cart {
	items := clone(c.Items)
	for _, in := range remote.Items {
		items = merge(items, in, in.Quantity)
	}

	c.Items = items
	c = recompute(c)
	c.ID = remote.ID
	c.UserID = remote.UserID
	return c
}

// TotalAmount returns the stored cart total.
func TotalAmount(c Cart) decimal.Decimal {
	return c.Total
}

// Summary returns the aggregates of c.
func Summary(c Cart) Amount {
	return Amount{
		Total:           c.Total,
		DiscountedTotal: c.DiscountedTotal,
		TotalProducts:   c.TotalProducts,
		TotalQuantity:   c.TotalQuantity,
	}
}

// Verify reports the first aggregate of c that disagrees with its items.
func Verify(c Cart) error {
	seen := make(map[product.ID]struct{}, len(c.Items))
	for _, it := range c.Items {
		if _, ok := seen[it.ID]; ok {
			return fmt.Errorf("product[%d] appears more than once", it.ID)
		}
		seen[it.ID] = struct{}{}

		if want := lineTotal(it.Price, it.Quantity); !it.Total.Equal(want) {
			return fmt.Errorf("product[%d] total is %s, expected %s", it.ID, it.Total, want)
		}
	}

	want := recompute(c)
	switch {
	case c.TotalProducts != want.TotalProducts:
		return fmt.Errorf("totalProducts is %d, expected %d", c.TotalProducts, want.TotalProducts)
	case c.TotalQuantity != want.TotalQuantity:
		return fmt.Errorf("totalQuantity is %d, expected %d", c.TotalQuantity, want.TotalQuantity)
	case !c.Total.Equal(want.Total):
		return fmt.Errorf("total is %s, expected %s", c.Total, want.Total)
	case !c.DiscountedTotal.Equal(want.DiscountedTotal):
		return fmt.Errorf("discountedTotal is %s, expected %s", c.DiscountedTotal, want.DiscountedTotal)
	case !c.Total.Equal(itemsAmount(c.Items)):
		return fmt.Errorf("total is %s, items add up to %s", c.Total, itemsAmount(c.Items))
	}
	return nil
}

func merge(items []Item, in Item, quantity int) []Item {
	for i := range items {
		if items[i].ID == in.ID {
			items[i].Quantity += quantity
			items[i].Total = lineTotal(items[i].Price, items[i].Quantity)
			return items
		}
	}

	in.Quantity = quantity
	in.Total = lineTotal(in.Price, in.Quantity)
	return append(items, in)
}

func recompute(c Cart) Cart {
	c.TotalQuantity = 0
	c.Total = decimal.Zero
	c.DiscountedTotal = decimal.Zero
	for _, it := range c.Items {
		c.TotalQuantity += it.Quantity
		c.Total = c.Total.Add(it.Total)
		c.DiscountedTotal = c.DiscountedTotal.Add(lineTotal(it.effectivePrice(), it.Quantity))
	}
	c.TotalProducts = len(c.Items)
	return c
}

// itemsAmount sums the line totals the way a renderer would, falling back
// to price times quantity for an item without a total.
func itemsAmount(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if it.Total.IsZero() {
			sum = sum.Add(lineTotal(it.Price, it.Quantity))
			continue
		}
		sum = sum.Add(it.Total)
	}
	return sum
}

func clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
