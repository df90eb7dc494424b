// Package cart is the in-progress order of one checkout session.
package cart

import (
	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TaxRate is applied to the subtotal of every sale.
var TaxRate = decimal.RequireFromString("0.10")

// Summary holds unrounded amounts. Round only when presenting.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Rounded is the summary as shown to the customer, 2 decimal places.
func (s Summary) Rounded() Summary {
	return Summary{
		Subtotal: s.Subtotal.Round(2),
		Tax:      s.Tax.Round(2),
		Total:    s.Total.Round(2),
	}
}

// Summarize computes subtotal, tax and total over lines.
func Summarize(lines []models.CartLine) Summary {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	tax := subtotal.Mul(TaxRate)
	return Summary{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// Cart keeps lines in the order products were first added. A line's quantity
// is always between 1 and the stock of its product snapshot.
type Cart struct {
	lines []models.CartLine
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID string) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of p. If the line exists its snapshot is refreshed
// to p, so the stock ceiling follows the catalog.
func (c *Cart) AddItem(p models.Product) error {
	idx := c.find(p.ID)
	if idx < 0 {
		if p.Stock < 1 {
			return &apperr.StockLimitError{ProductID: p.ID, Name: p.Name, Available: p.Stock}
		}
		c.lines = append(c.lines, models.CartLine{Product: p, Quantity: 1})
		return nil
	}

	next := c.lines[idx].Quantity + 1
	if next > p.Stock {
		return &apperr.StockLimitError{ProductID: p.ID, Name: p.Name, Available: p.Stock}
	}
	c.lines[idx] = models.CartLine{Product: p, Quantity: next}
	return nil
}

// AdjustQuantity changes a line by delta. A result below 1 is ignored, the
// line stays as it is; use RemoveItem to drop it.
func (c *Cart) AdjustQuantity(productID string, delta int) error {
	idx := c.find(productID)
	if idx < 0 {
		return errors.Wrapf(apperr.ErrNotFound, "product %s not in cart", productID)
	}

	line := c.lines[idx]
	next := line.Quantity + delta
	if next <= 0 {
		return nil
	}
	if next > line.Product.Stock {
		return &apperr.StockLimitError{ProductID: productID, Name: line.Product.Name, Available: line.Product.Stock}
	}
	c.lines[idx].Quantity = next
	return nil
}

func (c *Cart) RemoveItem(productID string) {
	if idx := c.find(productID); idx >= 0 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy, safe to hand to the ledger.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Quantity returns the quantity of productID, 0 when absent.
func (c *Cart) Quantity(productID string) int {
	if idx := c.find(productID); idx >= 0 {
		return c.lines[idx].Quantity
	}
	return 0
}

func (c *Cart) Summary() Summary {
	return Summarize(c.lines)
}
