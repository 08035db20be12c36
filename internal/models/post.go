package models

import (
	"time"
)

// PostKind discriminates the two concrete post variants. It is assigned
// exactly once when a post is created and is never user-editable.
type PostKind string

const (
	// KindHiring marks a post where the author seeks a paid service.
	KindHiring PostKind = "hiring"
	// KindRental marks a post where the author offers an item for rent.
	KindRental PostKind = "rental"
)

// Valid reports whether k is one of the known post kinds.
func (k PostKind) Valid() bool {
	return k == KindHiring || k == KindRental
}

// Post is the base listing shared by both variants. Exactly one of
// Hiring or Rental is non-nil, matching Kind.
type Post struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Kind        PostKind    `gorm:"type:varchar(20);not null;index;<-:create" json:"kind"`
	AuthorID    uint        `gorm:"not null;index" json:"author_id"`
	Author      User        `gorm:"foreignKey:AuthorID" json:"author"`
	Hiring      *HiringPost `gorm:"foreignKey:PostID" json:"hiring,omitempty"`
	Rental      *RentalPost `gorm:"foreignKey:PostID" json:"rental,omitempty"`
	Media       []Media     `gorm:"foreignKey:PostID" json:"media,omitempty"`
	Skills      []Skill     `gorm:"many2many:post_skills" json:"skills,omitempty"`
	Categories  []Category  `gorm:"many2many:post_categories" json:"categories,omitempty"`
	// ReviewCount is not persisted; computed at query time
	ReviewCount int `gorm:"->" json:"review_count"`
	// AverageRating is not persisted; live aggregate over reviews, 0 when none
	AverageRating float64 `gorm:"->" json:"average_rating"`
	// Booked indicates whether the current requesting user booked this post (computed)
	Booked    bool      `gorm:"->" json:"booked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HiringPost carries the hiring-specific payload. PostID doubles as the
// primary key so every payload row has exactly one base post row.
type HiringPost struct {
	PostID    uint   `gorm:"primaryKey" json:"post_id"`
	BudgetMin int    `gorm:"not null" json:"budget_min"`
	BudgetMax int    `gorm:"not null" json:"budget_max"`
	WorkType  string `gorm:"size:100" json:"work_type"`
}

// RentalPost carries the rental-specific payload.
type RentalPost struct {
	PostID      uint `gorm:"primaryKey" json:"post_id"`
	PricePerDay int  `gorm:"not null" json:"price_per_day"`
	Deposit     int  `gorm:"default:0" json:"deposit"`
}

// Media is an image attached to a post. SourceURL is an external link,
// ImagePath a stored upload; ImagePath wins when both are present.
type Media struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	SourceURL string    `gorm:"size:500" json:"source_url"`
	ImagePath string    `gorm:"size:500" json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM. "Media" does not
// pluralize cleanly, so pin it.
func (Media) TableName() string {
	return "media"
}

// URL returns the address a client should load for this media item,
// or "" when neither a stored image nor a source link exists.
func (m Media) URL() string {
	if m.ImagePath != "" {
		return m.ImagePath
	}
	return m.SourceURL
}
