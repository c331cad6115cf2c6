package models

import (
	"time"
)

// Rating is one user's 1-5 score for a GIF, at most one per (user, gif)
type Rating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ratings_user_gif" json:"user_id"`
	GifID     string    `gorm:"not null;uniqueIndex:idx_ratings_user_gif;index" json:"gif_id"`
	Rating    int       `gorm:"not null" json:"rating"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
