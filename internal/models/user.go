// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a marketplace account.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email     string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	FirstName string         `gorm:"size:150" json:"first_name"`
	LastName  string         `gorm:"size:150" json:"last_name"`
	IsStaff   bool           `gorm:"default:false" json:"is_staff"`
	Profile   *Profile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Profile holds the public-facing details of a user. Exactly one per user,
// created alongside the account at signup.
type Profile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	StudentID   string    `gorm:"size:10" json:"student_id"`
	Bio         string    `gorm:"type:text" json:"bio"`
	Phone       string    `gorm:"size:10" json:"phone"`
	SocialMedia string    `gorm:"size:255" json:"social_media"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
