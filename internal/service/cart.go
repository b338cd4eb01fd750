package service

import (
	"hilanderia-pos/internal/model"
	"hilanderia-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a product snapshot with the requested quantity.
type CartItem struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
}

// LineSubtotal is unit price times quantity, exact.
func LineSubtotal(item CartItem) decimal.Decimal {
	return item.Product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Cart is the transient basket built before checkout. It keeps insertion
// order and at most one line per product. The zero value is an empty cart.
type Cart struct {
	items []CartItem
}

func (c *Cart) index(id uuid.UUID) int {
	for i, it := range c.items {
		if it.Product.ID == id {
			return i
		}
	}
	return -1
}

// Add changes the quantity of product by delta. A resulting quantity above
// the product stock fails with OutOfStock and leaves the cart unchanged; a
// resulting quantity of zero or less removes the line.
func (c *Cart) Add(product model.Product, delta int) error {
	current := 0
	if i := c.index(product.ID); i >= 0 {
		current = c.items[i].Quantity
	}
	if delta > 0 && product.Stock <= 0 {
		return apperr.ErrOutOfStock.With(product.ID.String())
	}
	return c.SetQuantity(product, current+delta)
}

// SetQuantity replaces the quantity of product, with the same rules as Add.
func (c *Cart) SetQuantity(product model.Product, qty int) error {
	i := c.index(product.ID)
	if qty <= 0 {
		if i >= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
		return nil
	}
	if qty > product.Stock {
		return apperr.ErrOutOfStock.With(product.ID.String())
	}
	if i >= 0 {
		c.items[i] = CartItem{Product: product, Quantity: qty}
		return nil
	}
	c.items = append(c.items, CartItem{Product: product, Quantity: qty})
	return nil
}

func (c *Cart) Remove(productID uuid.UUID) {
	if i := c.index(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// Items returns a copy of the lines.
func (c *Cart) Items() []CartItem {
	return append([]CartItem(nil), c.items...)
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) Quantity(productID uuid.UUID) int {
	if i := c.index(productID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// Total is the sum of line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(LineSubtotal(it))
	}
	return total
}
