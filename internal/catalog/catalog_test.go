package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"orderbot/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fetch(ctx context.Context) ([]Record, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]Record)
	return records, args.Error(1)
}

func TestDecodeRecord(t *testing.T) {
	item, err := DecodeRecord(Record{
		ID: "abc",
		Data: map[string]interface{}{
			FieldTitle:       "Masala Dosa",
			FieldDescription: "Crisp crepe",
			FieldPrice:       "99.50",
			FieldOffer:       int64(15),
			FieldRating:      4.6,
			FieldImage:       "https://img/dosa.jpg",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", item.ID)
	assert.Equal(t, "99.50", item.Price.StringFixed(2))
	require.NotNil(t, item.DiscountPercent)
	assert.Equal(t, 15, *item.DiscountPercent)
	assert.Equal(t, 4.6, item.Rating)

	numeric, err := DecodeRecord(Record{ID: "n", Data: map[string]interface{}{FieldTitle: "Idli", FieldPrice: float64(79)}})
	require.NoError(t, err)
	assert.Equal(t, "79.00", numeric.Price.StringFixed(2))
	assert.Nil(t, numeric.DiscountPercent)
}

func TestDecodeRecord_Rejects(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"missing id", Record{Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1"}}},
		{"missing title", Record{ID: "1", Data: map[string]interface{}{FieldPrice: "1"}}},
		{"title wrong type", Record{ID: "1", Data: map[string]interface{}{FieldTitle: 7, FieldPrice: "1"}}},
		{"missing price", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x"}}},
		{"price not numeric", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "cheap"}}},
		{"negative price", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "-3"}}},
		{"fractional offer", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1", FieldOffer: 2.5}}},
		{"offer out of range", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1", FieldOffer: int64(120)}}},
		{"rating out of range", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1", FieldRating: 9.0}}},
		{"rating wrong type", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1", FieldRating: true}}},
		{"price NaN", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: math.NaN()}}},
		{"price +Inf", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: math.Inf(1)}}},
		{"price -Inf float32", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: float32(math.Inf(-1))}}},
		{"price NaN string", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "NaN"}}},
		{"rating NaN", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1", FieldRating: math.NaN()}}},
		{"rating NaN string", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1", FieldRating: "NaN"}}},
		{"rating Inf", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1", FieldRating: math.Inf(1)}}},
		{"offer Inf", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1", FieldOffer: math.Inf(1)}}},
		{"offer NaN", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1", FieldOffer: math.NaN()}}},
		{"offer huge", Record{ID: "1", Data: map[string]interface{}{FieldTitle: "x", FieldPrice: "1", FieldOffer: 1e300}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecord(tt.rec)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestLoader_SkipsBadRecords(t *testing.T) {
	src := new(mockSource)
	src.On("Fetch", mock.Anything).Return([]Record{
		{ID: "1", Data: map[string]interface{}{FieldTitle: "Hakka Noodles", FieldPrice: "149"}},
		{ID: "2", Data: map[string]interface{}{FieldTitle: "Broken"}},
		{ID: "3", Data: map[string]interface{}{FieldTitle: "Gulab Jamun", FieldPrice: int64(59)}},
	}, nil)

	core, logs := observer.New(zap.WarnLevel)
	res := NewLoader(src, zap.New(core)).Load(context.Background())

	require.NoError(t, res.Err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "1", res.Items[0].ID)
	assert.Equal(t, "3", res.Items[1].ID)
	assert.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, logs.FilterMessage("rejected catalog record").Len())
	src.AssertExpectations(t)
}

func TestLoader_NonFiniteNumbersAreRejected(t *testing.T) {
	src := new(mockSource)
	src.On("Fetch", mock.Anything).Return([]Record{
		{ID: "ok", Data: map[string]interface{}{FieldTitle: "Idli Sambar", FieldPrice: 79.0}},
		{ID: "inf", Data: map[string]interface{}{FieldTitle: "Broken", FieldPrice: math.Inf(1)}},
		{ID: "nan", Data: map[string]interface{}{FieldTitle: "Broken", FieldPrice: "1", FieldRating: math.NaN()}},
	}, nil)

	var res Result
	require.NotPanics(t, func() {
		res = NewLoader(src, zap.NewNop()).Load(context.Background())
	})

	require.NoError(t, res.Err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "ok", res.Items[0].ID)
	assert.Len(t, res.Rejected, 2)

	_, err := json.Marshal(res.Items)
	assert.NoError(t, err)
}

func TestLoader_FetchFailureYieldsEmptyCatalog(t *testing.T) {
	src := new(mockSource)
	src.On("Fetch", mock.Anything).Return(nil, errors.New("permission denied"))

	core, logs := observer.New(zap.ErrorLevel)
	res := NewLoader(src, zap.New(core)).Load(context.Background())

	assert.Error(t, res.Err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, logs.FilterMessage("catalog load failed").Len())
}

func TestSQLiteSource_SeedAndFetch(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer database.Close(db)

	src, err := NewSQLiteSource(db)
	require.NoError(t, err)

	created, err := Seed(db)
	require.NoError(t, err)
	assert.Greater(t, created, 0)

	again, err := Seed(db)
	require.NoError(t, err)
	assert.Zero(t, again, "seeding twice must not duplicate rows")

	res := NewLoader(src, nil).Load(context.Background())
	require.NoError(t, res.Err)
	assert.Empty(t, res.Rejected)
	assert.Len(t, res.Items, created)
	assert.Equal(t, "Hakka Noodles", res.Items[0].Title)
	require.NotNil(t, res.Items[0].DiscountPercent)
	assert.Equal(t, 10, *res.Items[0].DiscountPercent)
}
