package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MenuItem represents a dish in the catalog. Field names on the wire follow the
// document store so the chat service receives records in their stored shape.
type MenuItem struct {
	ID              string          `json:"id"`
	Title           string          `json:"productTitle"`
	Description     string          `json:"productDesc"`
	Price           decimal.Decimal `json:"productPrice"`
	DiscountPercent *int            `json:"productOffer,omitempty"`
	Rating          float64         `json:"productRating"`
	ImageRef        string          `json:"productImg"`
}

const (
	MaxDiscountPercent = 100
	MaxRating          = 5.0
)

var ErrInvalidMenuItem = errors.New("invalid menu item")

// ValidateMenuItem validates a menu item
func ValidateMenuItem(item *MenuItem) error {
	if item.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidMenuItem)
	}
	if item.Title == "" {
		return fmt.Errorf("%w: %s: title is required", ErrInvalidMenuItem, item.ID)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: %s: price must not be negative", ErrInvalidMenuItem, item.ID)
	}
	if d := item.DiscountPercent; d != nil && (*d < 0 || *d > MaxDiscountPercent) {
		return fmt.Errorf("%w: %s: discount %d out of range", ErrInvalidMenuItem, item.ID, *d)
	}
	if math.IsNaN(item.Rating) || item.Rating < 0 || item.Rating > MaxRating {
		return fmt.Errorf("%w: %s: rating %.1f out of range", ErrInvalidMenuItem, item.ID, item.Rating)
	}
	return nil
}

// IsBestseller reports whether the item carries an offer.
func (mi *MenuItem) IsBestseller() bool {
	return mi.DiscountPercent != nil && *mi.DiscountPercent > 0
}

// OriginalPrice returns the pre-discount price. Items without a usable discount
// report their current price.
func (mi *MenuItem) OriginalPrice() decimal.Decimal {
	if !mi.IsBestseller() || *mi.DiscountPercent >= MaxDiscountPercent {
		return mi.Price
	}
	remaining := decimal.NewFromInt(int64(MaxDiscountPercent - *mi.DiscountPercent)).Div(decimal.NewFromInt(MaxDiscountPercent))
	return mi.Price.Div(remaining)
}

// RatingCount mirrors the storefront convention of ten ratings per star.
func (mi *MenuItem) RatingCount() int {
	return int(mi.Rating * 10)
}

// LineAmount returns price x quantity.
func (mi *MenuItem) LineAmount(quantity int) decimal.Decimal {
	return mi.Price.Mul(decimal.NewFromInt(int64(quantity)))
}
