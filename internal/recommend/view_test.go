package recommend

import (
	"testing"

	"orderbot/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog() []*models.MenuItem {
	return []*models.MenuItem{
		{ID: "1", Title: "Hakka Noodles", Price: decimal.RequireFromString("150")},
		{ID: "2", Title: "Masala Dosa", Price: decimal.RequireFromString("90")},
	}
}

func TestView_SelectorClampsAtZero(t *testing.T) {
	v := NewView()
	v.Set(catalog())

	q, err := v.Decrement("1")
	require.NoError(t, err)
	assert.Equal(t, 0, q)

	for i := 0; i < 12; i++ {
		_, err = v.Increment("1")
		require.NoError(t, err)
	}
	assert.Equal(t, 12, v.Quantity("1"))

	q, err = v.Decrement("1")
	require.NoError(t, err)
	assert.Equal(t, 11, q)
}

func TestView_TakeResetsSelector(t *testing.T) {
	items := catalog()
	v := NewView()
	v.Set(items)

	_, _, err := v.Take("2")
	assert.ErrorIs(t, err, ErrZeroQuantity)
	assert.False(t, v.CanAdd("2"))

	_, _ = v.Increment("2")
	_, _ = v.Increment("2")
	assert.True(t, v.CanAdd("2"))

	item, qty, err := v.Take("2")
	require.NoError(t, err)
	assert.Same(t, items[1], item)
	assert.Equal(t, 2, qty)
	assert.Equal(t, 0, v.Quantity("2"))
}

func TestView_SetReplacesAndResets(t *testing.T) {
	items := catalog()
	v := NewView()
	v.Set(items)
	_, _ = v.Increment("1")

	v.Set([]*models.MenuItem{items[0], items[0], nil})
	assert.Equal(t, 1, v.Len())
	assert.Equal(t, 0, v.Quantity("1"))

	_, err := v.Increment("2")
	assert.ErrorIs(t, err, ErrUnknownItem)
	_, _, err = v.Take("2")
	assert.ErrorIs(t, err, ErrUnknownItem)
}
