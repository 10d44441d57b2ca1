package models

import (
	"time"
)

// Badge rule types. Only points_threshold is evaluated today.
const (
	BadgeRulePointsThreshold = "points_threshold"
)

// Badge: static config (seed data, read-only to this service).
type Badge struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Tier        string    `gorm:"type:varchar(16);default:'bronze'" json:"tier"`
	IconURL     string    `gorm:"type:text" json:"icon_url"`
	RuleType    string    `gorm:"not null" json:"rule_type"`
	Threshold   int       `gorm:"not null" json:"threshold"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge: awarded instance. The composite PK enforces at-most-one award
// per user per badge; repeated award attempts fail the insert and are
// ignored by the gamify service.
type UserBadge struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	BadgeID   string    `gorm:"primaryKey;type:uuid" json:"badge_id"`
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}
