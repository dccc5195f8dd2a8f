package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/models"
)

// Connect bootstraps a SQLite database using the provided filesystem path.
func Connect(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	return db, nil
}

// Migrate applies automatic migrations for every persistent model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.ComplianceItem{},
		&models.SearchLog{},
		&models.DocumentAnalytics{},
		&models.ProcessingJob{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
