package models

import (
	"time"
)

// CheckIn records a visit to a location. Its ID doubles as the gamify
// eventId, so resubmitting the same check-in never double-credits points.
type CheckIn struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"index;not null" json:"user_id"`
	LocationID string    `gorm:"index" json:"location_id"`
	Category   string    `json:"category"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
