package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date for every registered model.
// AutoMigrate only adds missing tables, columns and indexes; it never
// drops anything, so running it repeatedly is safe.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return nil
}
