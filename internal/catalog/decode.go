package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"orderbot/internal/models"

	"github.com/shopspring/decimal"
)

// Stored field names
const (
	FieldTitle       = "productTitle"
	FieldDescription = "productDesc"
	FieldPrice       = "productPrice"
	FieldOffer       = "productOffer"
	FieldRating      = "productRating"
	FieldImage       = "productImg"
)

var ErrInvalidRecord = errors.New("invalid catalog record")

// DecodeRecord maps a raw record into a MenuItem. Missing or mistyped fields
// reject the record instead of leaking zero values into the catalog.
func DecodeRecord(rec Record) (models.MenuItem, error) {
	fail := func(format string, args ...interface{}) (models.MenuItem, error) {
		return models.MenuItem{}, fmt.Errorf("%w %q: %s", ErrInvalidRecord, rec.ID, fmt.Sprintf(format, args...))
	}

	if rec.ID == "" {
		return fail("missing id")
	}

	title, err := requiredString(rec.Data, FieldTitle)
	if err != nil {
		return fail("%v", err)
	}
	description, err := optionalString(rec.Data, FieldDescription)
	if err != nil {
		return fail("%v", err)
	}
	image, err := optionalString(rec.Data, FieldImage)
	if err != nil {
		return fail("%v", err)
	}

	rawPrice, ok := rec.Data[FieldPrice]
	if !ok || rawPrice == nil {
		return fail("%s is required", FieldPrice)
	}
	price, err := toDecimal(rawPrice)
	if err != nil {
		return fail("%s: %v", FieldPrice, err)
	}

	item := models.MenuItem{
		ID:          rec.ID,
		Title:       title,
		Description: description,
		Price:       price,
		ImageRef:    image,
	}

	if raw, ok := rec.Data[FieldOffer]; ok && raw != nil {
		offer, err := toFloat(raw)
		if err != nil {
			return fail("%s: %v", FieldOffer, err)
		}
		if offer != math.Trunc(offer) {
			return fail("%s: %v is not a whole percentage", FieldOffer, offer)
		}
		if offer < 0 || offer > models.MaxDiscountPercent {
			return fail("%s: %v out of range", FieldOffer, offer)
		}
		pct := int(offer)
		item.DiscountPercent = &pct
	}

	if raw, ok := rec.Data[FieldRating]; ok && raw != nil {
		rating, err := toFloat(raw)
		if err != nil {
			return fail("%s: %v", FieldRating, err)
		}
		item.Rating = rating
	}

	if err := models.ValidateMenuItem(&item); err != nil {
		return fail("%v", err)
	}
	return item, nil
}

func requiredString(data map[string]interface{}, field string) (string, error) {
	s, err := optionalString(data, field)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	return s, nil
}

func optionalString(data map[string]interface{}, field string) (string, error) {
	raw, ok := data[field]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", field, raw)
	}
	return s, nil
}

// Prices are stored either as numbers or as numeric strings.
func toDecimal(raw interface{}) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		if !isFinite(v) {
			return decimal.Zero, fmt.Errorf("%v is not a finite number", v)
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		if !isFinite(float64(v)) {
			return decimal.Zero, fmt.Errorf("%v is not a finite number", v)
		}
		return decimal.NewFromFloat32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported type %T", raw)
	}
}

func toFloat(raw interface{}) (float64, error) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
	if !isFinite(f) {
		return 0, fmt.Errorf("%v is not a finite number", f)
	}
	return f, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
