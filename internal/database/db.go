package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Open opens the SQLite database at dbPath
func Open(dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	db.LogMode(false)
	return db, nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
