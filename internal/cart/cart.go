// Package cart holds the in-progress sale. Nothing here is persisted.
package cart

import (
	"errors"
	"fmt"

	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/models"

	"github.com/shopspring/decimal"
)

// ErrInsufficientStock rejects a change that would put more units in the
// cart than the product snapshot has in stock.
var ErrInsufficientStock = errors.New("insufficient stock")

// Totals is the price breakdown shown next to the cart.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Cart is an ordered list of lines plus a flat discount.
// It is not safe for concurrent use.
type Cart struct {
	items    []models.CartItem
	discount decimal.Decimal
	taxRate  decimal.Decimal
}

// New returns an empty cart. taxRate is a fraction, e.g. 0.1 for 10%.
func New(taxRate decimal.Decimal) *Cart {
	return &Cart{taxRate: taxRate}
}

func stockError(p models.Product, requested int) error {
	return apperrors.Wrap(apperrors.CodeValidation, ErrInsufficientStock,
		fmt.Sprintf("only %d %s in stock", p.Stock, p.Name)).
		WithDetails(map[string]any{
			"product_id": p.ID,
			"available":  p.Stock,
			"requested":  requested,
		})
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts qty units of product in the cart, merging with an existing line.
// The product snapshot is taken only when the line is created. Only stock is
// checked here; callers pass positive quantities.
func (c *Cart) Add(product models.Product, qty int) error {
	idx := c.indexOf(product.ID)
	existing := 0
	if idx >= 0 {
		existing = c.items[idx].Quantity
	}
	if product.Stock < existing+qty {
		return stockError(product, existing+qty)
	}
	if idx >= 0 {
		c.items[idx].Quantity += qty
		return nil
	}
	c.items = append(c.items, models.CartItem{Product: product, Quantity: qty})
	return nil
}

// UpdateQuantity sets a line's quantity as given, without clamping.
// An id that is not in the cart is ignored.
func (c *Cart) UpdateQuantity(productID string, qty int) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return nil
	}
	if c.items[idx].Product.Stock < qty {
		return stockError(c.items[idx].Product, qty)
	}
	c.items[idx].Quantity = qty
	return nil
}

func (c *Cart) Remove(productID string) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
}

// Clear empties the cart and resets the discount.
func (c *Cart) Clear() {
	c.items = nil
	c.discount = decimal.Zero
}

// SetDiscount stores a flat amount. It is not clamped, so a discount larger
// than the subtotal yields a negative total.
func (c *Cart) SetDiscount(amount decimal.Decimal) {
	c.discount = amount
}

func (c *Cart) Discount() decimal.Decimal {
	return c.discount
}

func (c *Cart) TaxRate() decimal.Decimal {
	return c.taxRate
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(c.taxRate)
}

// Total is subtotal + tax - discount.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Tax()).Sub(c.discount)
}

func (c *Cart) Totals() Totals {
	subtotal := c.Subtotal()
	tax := subtotal.Mul(c.taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: c.discount,
		Total:    subtotal.Add(tax).Sub(c.discount),
	}
}
