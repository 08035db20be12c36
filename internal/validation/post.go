package validation

import (
	"fmt"
	"strings"
)

const (
	maxTitleLen       = 255
	maxDescriptionLen = 20000
)

// ValidateTitle checks a post title for presence and length.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("title too long (max %d characters)", maxTitleLen)
	}
	return nil
}

// ValidateDescription bounds a post description.
func ValidateDescription(description string) error {
	if len(description) > maxDescriptionLen {
		return fmt.Errorf("description too long (max %d characters)", maxDescriptionLen)
	}
	return nil
}

// ValidateHiringBudget checks the budget range of a hiring post.
func ValidateHiringBudget(min, max int) error {
	if min <= 0 {
		return fmt.Errorf("minimum budget must be positive")
	}
	if max <= 0 {
		return fmt.Errorf("maximum budget must be positive")
	}
	if min > max {
		return fmt.Errorf("minimum budget cannot exceed maximum budget")
	}
	return nil
}

// ValidateRentalPricing checks the price and deposit of a rental post.
func ValidateRentalPricing(pricePerDay, deposit int) error {
	if pricePerDay <= 0 {
		return fmt.Errorf("price per day must be positive")
	}
	if deposit < 0 {
		return fmt.Errorf("deposit cannot be negative")
	}
	return nil
}

// ValidateRating bounds a review rating to the 1-5 scale.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}
