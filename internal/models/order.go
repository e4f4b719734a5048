package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine represents one cart entry. Item points into the loaded catalog.
type OrderLine struct {
	ID       uuid.UUID
	Item     *MenuItem
	Quantity int
}

// Amount returns the line total.
func (ol OrderLine) Amount() decimal.Decimal {
	return ol.Item.LineAmount(ol.Quantity)
}

// Receipt is the snapshot taken when an order is confirmed.
type Receipt struct {
	OrderID uuid.UUID
	Lines   []OrderLine
	Total   decimal.Decimal
}
