package seed

import (
	"fmt"

	"domemarket/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gopkg.in/yaml.v3"
)

// CategoryPreset describes one curated category and which post kinds
// may use it.
type CategoryPreset struct {
	Name   string `yaml:"name"`
	Hiring bool   `yaml:"hiring"`
	Rental bool   `yaml:"rental"`
}

// Preset is a curated taxonomy: the categories posts can be filed
// under and a starter set of hiring skills.
type Preset struct {
	Categories []CategoryPreset `yaml:"categories"`
	Skills     []string         `yaml:"skills"`
}

// DefaultPreset is the built-in campus marketplace taxonomy, used when
// no preset file is supplied.
var DefaultPreset = Preset{
	Categories: []CategoryPreset{
		{Name: "Electronics", Rental: true},
		{Name: "Cameras", Rental: true},
		{Name: "Formal Wear", Rental: true},
		{Name: "Sports Equipment", Rental: true},
		{Name: "Textbooks", Rental: true},
		{Name: "Musical Instruments", Rental: true},
		{Name: "Camping Gear", Rental: true},
		{Name: "Board Games", Rental: true},
		{Name: "Tutoring", Hiring: true},
		{Name: "Design", Hiring: true},
		{Name: "Photography", Hiring: true, Rental: true},
		{Name: "Event Help", Hiring: true},
	},
	Skills: []string{
		"graphic design", "video editing", "photography", "tutoring",
		"translation", "web development", "copywriting", "illustration",
		"music production", "data entry",
	},
}

// LoadPreset parses a YAML preset document.
func LoadPreset(data []byte) (*Preset, error) {
	var preset Preset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}
	for i, c := range preset.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("preset category %d has no name", i)
		}
		if !c.Hiring && !c.Rental {
			return nil, fmt.Errorf("preset category %q allows no post kind", c.Name)
		}
	}
	return &preset, nil
}

// EnsureTaxonomy upserts the preset's categories and skills. Existing
// rows with the same name are left untouched, so re-running is safe.
func EnsureTaxonomy(db *gorm.DB, preset Preset) error {
	for _, c := range preset.Categories {
		category := models.Category{
			Name:     c.Name,
			IsHiring: c.Hiring,
			IsRental: c.Rental,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&category).Error
		if err != nil {
			return fmt.Errorf("ensure category %q: %w", c.Name, err)
		}
	}

	for _, name := range preset.Skills {
		skill := models.Skill{Name: name}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&skill).Error
		if err != nil {
			return fmt.Errorf("ensure skill %q: %w", name, err)
		}
	}
	return nil
}
