// Package cart accumulates order lines and keeps the running total.
//
// A Cart is not safe for concurrent use; callers serialize access.
package cart

import (
	"errors"
	"fmt"

	"orderbot/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNilItem         = errors.New("menu item is required")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrSummaryClosed   = errors.New("order summary is not open")
)

// Cart holds the order lines of the current session.
type Cart struct {
	lines       []models.OrderLine
	total       decimal.Decimal
	summaryOpen bool
}

// New creates an empty cart
func New() *Cart {
	return &Cart{total: decimal.Zero}
}

// Add appends a new line. Lines for the same item are never merged.
func (c *Cart) Add(item *models.MenuItem, quantity int) (models.OrderLine, error) {
	if item == nil {
		return models.OrderLine{}, ErrNilItem
	}
	if quantity < 1 {
		return models.OrderLine{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	line := models.OrderLine{
		ID:       uuid.New(),
		Item:     item,
		Quantity: quantity,
	}
	c.lines = append(c.lines, line)
	c.total = c.total.Add(line.Amount())
	return line, nil
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []models.OrderLine {
	lines := make([]models.OrderLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// Total returns the running total
func (c *Cart) Total() decimal.Decimal {
	return c.total
}

// SummaryOpen reports whether the confirmation summary is showing.
func (c *Cart) SummaryOpen() bool {
	return c.summaryOpen
}

// RequestConfirmation opens the summary. It never touches lines or total.
func (c *Cart) RequestConfirmation() error {
	if len(c.lines) == 0 {
		return ErrEmptyCart
	}
	c.summaryOpen = true
	return nil
}

// Cancel closes the summary and leaves the cart as it was.
func (c *Cart) Cancel() {
	c.summaryOpen = false
}

// Confirm snapshots the order, then clears lines and total and closes the summary.
func (c *Cart) Confirm() (models.Receipt, error) {
	if !c.summaryOpen {
		return models.Receipt{}, ErrSummaryClosed
	}
	if len(c.lines) == 0 {
		c.summaryOpen = false
		return models.Receipt{}, ErrEmptyCart
	}

	receipt := models.Receipt{
		OrderID: uuid.New(),
		Lines:   c.Lines(),
		Total:   c.total,
	}

	c.lines = nil
	c.total = decimal.Zero
	c.summaryOpen = false
	return receipt, nil
}
