package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("Math tutor wanted"))
	assert.Error(t, ValidateTitle(""))
	assert.Error(t, ValidateTitle("   "))
	assert.Error(t, ValidateTitle(strings.Repeat("x", maxTitleLen+1)))
}

func TestValidateHiringBudget(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		wantErr  bool
	}{
		{"Valid", 100, 500, false},
		{"EqualBounds", 300, 300, false},
		{"MinAboveMax", 500, 100, true},
		{"ZeroMin", 0, 100, true},
		{"NegativeMax", 100, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHiringBudget(tt.min, tt.max)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRentalPricing(t *testing.T) {
	assert.NoError(t, ValidateRentalPricing(50, 0))
	assert.NoError(t, ValidateRentalPricing(50, 500))
	assert.Error(t, ValidateRentalPricing(0, 0))
	assert.Error(t, ValidateRentalPricing(-10, 0))
	assert.Error(t, ValidateRentalPricing(50, -1))
}

func TestValidateRating(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		assert.NoError(t, ValidateRating(rating))
	}
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
	assert.Error(t, ValidateRating(-3))
}
