package models

import (
	"time"
)

// User represents a registered user
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `gorm:"not null" json:"name"`

	// Relationships
	Gifs     []Gif     `gorm:"foreignKey:CreatedByID" json:"gifs,omitempty"`
	Ratings  []Rating  `gorm:"foreignKey:UserID" json:"ratings,omitempty"`
	Comments []Comment `gorm:"foreignKey:UserID" json:"comments,omitempty"`
}
