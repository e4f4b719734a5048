package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jinzhu/gorm"
)

// FoodItem is the relational mirror of a food item document, used for local
// catalogs.
type FoodItem struct {
	gorm.Model
	Title       string
	Description string
	Price       string
	Offer       *int
	Rating      float64
	ImageURL    string
}

// TableName keeps the document collection name
func (FoodItem) TableName() string {
	return DefaultCollection
}

// SQLiteSource reads food items through gorm
type SQLiteSource struct {
	db *gorm.DB
}

// NewSQLiteSource wraps an open database and migrates the food item table
func NewSQLiteSource(db *gorm.DB) (*SQLiteSource, error) {
	if err := db.AutoMigrate(&FoodItem{}).Error; err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", DefaultCollection, err)
	}
	return &SQLiteSource{db: db}, nil
}

// Fetch returns every row as a raw record so it passes the same ingestion
// checks as documents from Firestore.
func (s *SQLiteSource) Fetch(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []FoodItem
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", DefaultCollection, err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		data := map[string]interface{}{
			FieldTitle:       row.Title,
			FieldDescription: row.Description,
			FieldPrice:       row.Price,
			FieldRating:      row.Rating,
			FieldImage:       row.ImageURL,
		}
		if row.Offer != nil {
			data[FieldOffer] = int64(*row.Offer)
		}
		records = append(records, Record{ID: strconv.FormatUint(uint64(row.ID), 10), Data: data})
	}
	return records, nil
}

// Seed fills an empty food item table with sample dishes and reports how
// many rows it created.
func Seed(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&FoodItem{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", DefaultCollection, err)
	}
	if count > 0 {
		return 0, nil
	}

	offer := func(v int) *int { return &v }
	samples := []FoodItem{
		{Title: "Hakka Noodles", Description: "Wok-tossed noodles with crunchy vegetables and soy", Price: "149.00", Offer: offer(10), Rating: 4.3, ImageURL: "https://images.example.com/hakka-noodles.jpg"},
		{Title: "Schezwan Noodles", Description: "Spicy noodles in a fiery Schezwan sauce", Price: "169.00", Rating: 4.1, ImageURL: "https://images.example.com/schezwan-noodles.jpg"},
		{Title: "Masala Dosa", Description: "Crisp rice crepe filled with spiced potato, served with sambar", Price: "99.00", Offer: offer(15), Rating: 4.6, ImageURL: "https://images.example.com/masala-dosa.jpg"},
		{Title: "Hyderabadi Chicken Biryani", Description: "Dum-cooked basmati rice with marinated chicken", Price: "279.00", Rating: 4.7, ImageURL: "https://images.example.com/chicken-biryani.jpg"},
		{Title: "Paneer Butter Masala", Description: "Cottage cheese in a rich tomato and butter gravy", Price: "229.00", Rating: 4.4, ImageURL: "https://images.example.com/paneer-butter-masala.jpg"},
		{Title: "Idli Sambar", Description: "Steamed rice cakes with lentil sambar and chutney", Price: "79.00", Rating: 4.2, ImageURL: "https://images.example.com/idli-sambar.jpg"},
		{Title: "Gulab Jamun", Description: "Soft milk dumplings soaked in rose syrup", Price: "59.00", Offer: offer(5), Rating: 4.5, ImageURL: "https://images.example.com/gulab-jamun.jpg"},
		{Title: "Mango Lassi", Description: "Chilled yogurt drink blended with Alphonso mango", Price: "89.00", Rating: 4.4, ImageURL: "https://images.example.com/mango-lassi.jpg"},
	}

	tx := db.Begin()
	for i := range samples {
		if err := tx.Create(&samples[i]).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to seed %s: %w", samples[i].Title, err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return len(samples), nil
}
