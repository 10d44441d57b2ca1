package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile mirrors the auth user (ID = auth user id, created by the signup
// flow). total_points is denormalized from point_transactions for cheap
// leaderboard reads and is incremented atomically by the gamify service.
type Profile struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	DisplayName string  `gorm:"not null" json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	TotalPoints int     `gorm:"not null;default:0" json:"total_points"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
