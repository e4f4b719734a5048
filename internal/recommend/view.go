// Package recommend holds the recommended subset of the catalog and the
// per-item quantity selectors shown next to it.
package recommend

import (
	"errors"

	"orderbot/internal/models"
)

var (
	ErrUnknownItem  = errors.New("item is not in the recommendation set")
	ErrZeroQuantity = errors.New("select a quantity before adding")
)

// View is a projection of the last recommendation set. Items are shared
// pointers into the catalog; selectors are local to the view.
type View struct {
	items    []*models.MenuItem
	quantity map[string]int
}

// NewView creates an empty view
func NewView() *View {
	return &View{quantity: make(map[string]int)}
}

// Set replaces the recommendation set and resets every selector.
func (v *View) Set(items []*models.MenuItem) {
	v.items = make([]*models.MenuItem, 0, len(items))
	v.quantity = make(map[string]int, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if _, dup := v.quantity[item.ID]; dup {
			continue
		}
		v.items = append(v.items, item)
		v.quantity[item.ID] = 0
	}
}

// Items returns the current set in the order the service returned it.
func (v *View) Items() []*models.MenuItem {
	items := make([]*models.MenuItem, len(v.items))
	copy(items, v.items)
	return items
}

// Len returns the number of recommended items
func (v *View) Len() int {
	return len(v.items)
}

// Quantity returns the selector value for id.
func (v *View) Quantity(id string) int {
	return v.quantity[id]
}

// Increment raises the selector by one. There is no upper bound.
func (v *View) Increment(id string) (int, error) {
	if _, ok := v.quantity[id]; !ok {
		return 0, ErrUnknownItem
	}
	v.quantity[id]++
	return v.quantity[id], nil
}

// Decrement lowers the selector by one, clamped at zero.
func (v *View) Decrement(id string) (int, error) {
	q, ok := v.quantity[id]
	if !ok {
		return 0, ErrUnknownItem
	}
	if q > 0 {
		v.quantity[id] = q - 1
	}
	return v.quantity[id], nil
}

// CanAdd reports whether the add action is enabled for id.
func (v *View) CanAdd(id string) bool {
	return v.quantity[id] > 0
}

// Take hands out the selected item and quantity and resets the selector.
// A zero selector yields ErrZeroQuantity and changes nothing.
func (v *View) Take(id string) (*models.MenuItem, int, error) {
	q, ok := v.quantity[id]
	if !ok {
		return nil, 0, ErrUnknownItem
	}
	if q == 0 {
		return nil, 0, ErrZeroQuantity
	}
	for _, item := range v.items {
		if item.ID == id {
			v.quantity[id] = 0
			return item, q, nil
		}
	}
	return nil, 0, ErrUnknownItem
}
