package database

import "domemarket/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.HiringPost{},
		&models.RentalPost{},
		&models.Media{},
		&models.Skill{},
		&models.Category{},
		&models.Review{},
		&models.Booking{},
	}
}
