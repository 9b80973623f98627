package model

import "github.com/shopspring/decimal"

// CartLine is a single product entry in a cart.
type CartLine struct {
	ProductID int `json:"id"`
	Quantity  int `json:"quantity"`
}

// Cart is the ordered set of lines held by one visitor session.
// It holds at most one line per product.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line for productID, or nil when the product is not in the cart.
func (c *Cart) Line(productID int) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Remove deletes the line for productID. It reports whether a line was removed.
func (c *Cart) Remove(productID int) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Clone returns a deep copy of the cart.
func (c Cart) Clone() Cart {
	if c.Lines == nil {
		return Cart{}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// CartItemView is a cart line joined with its product.
type CartItemView struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the computed view of a cart.
type CartView struct {
	Items []CartItemView  `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"cartCount"`
}
