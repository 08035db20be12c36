package models

import "time"

// Review is a 1-5 rating with an optional comment, unique per
// (post, author). Submitting again overwrites the earlier review.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_reviews_post_author" json:"post_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_reviews_post_author" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Booking records a user's reservation interest on a post. Membership in
// the set is toggled per request; the unique index keeps it a set.
type Booking struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookings_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_bookings_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
