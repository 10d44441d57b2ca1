package models

import (
	"time"
)

// Location: a check-in destination on the island map (seed/admin data).
type Location struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name      string    `gorm:"not null" json:"name"`
	Category  string    `gorm:"index" json:"category"` // e.g. beach, restaurant, landmark
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
