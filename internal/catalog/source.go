// Package catalog loads the menu from a document store and maps each stored
// record into a validated models.MenuItem.
package catalog

import "context"

// DefaultCollection is the document collection holding the food items.
const DefaultCollection = "fs_food_items"

// Record is one raw document: its store-assigned id and its field map.
type Record struct {
	ID   string
	Data map[string]interface{}
}

// Source fetches every record of the food item collection. No filtering,
// pagination or ordering is requested.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}
