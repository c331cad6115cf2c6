package models

import (
	"time"
)

// Comment is a free-text note on a GIF. Any number per user per GIF.
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	GifID     string    `gorm:"not null;index" json:"gif_id"`
	Comment   string    `gorm:"not null" json:"comment"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
