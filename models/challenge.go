package models

import (
	"time"
)

// Challenge goal types. Anything else is ignored by the gamify service so
// new types can be seeded before the code that evaluates them ships.
const (
	GoalCountByCategory   = "count_by_category"
	GoalDistinctLocations = "distinct_locations"
)

// Challenge: static config (seed data, read-only to this service).
// For count_by_category the required category lives in Metadata["category"].
type Challenge struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	GoalType    string         `gorm:"not null" json:"goal_type"`
	GoalValue   int            `gorm:"not null" json:"goal_value"`
	Metadata    map[string]any `gorm:"type:jsonb;serializer:json" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// ChallengeProgress: one counter per (user, challenge). Progress stops
// incrementing once completed_at is set.
type ChallengeProgress struct {
	UserID      string     `gorm:"primaryKey" json:"user_id"`
	ChallengeID string     `gorm:"primaryKey;type:uuid" json:"challenge_id"`
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ChallengeVisitedLocation is the per-user visited set backing
// distinct_locations challenges. The composite PK makes re-visits no-ops.
type ChallengeVisitedLocation struct {
	UserID      string    `gorm:"primaryKey" json:"user_id"`
	ChallengeID string    `gorm:"primaryKey;type:uuid" json:"challenge_id"`
	LocationID  string    `gorm:"primaryKey" json:"location_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
