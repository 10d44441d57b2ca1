package models

import (
	"time"
)

// PointTransaction is the immutable point ledger. The composite unique index
// on (user_id, event_type, event_id) is the idempotency key: a duplicate
// submission of the same real-world event fails the insert at the database
// level, which is the only dedupe the gamify service relies on.
type PointTransaction struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string         `gorm:"uniqueIndex:ux_point_tx_event,priority:1;not null" json:"user_id"`
	EventType string         `gorm:"uniqueIndex:ux_point_tx_event,priority:2;not null" json:"event_type"`
	EventID   string         `gorm:"uniqueIndex:ux_point_tx_event,priority:3;not null" json:"event_id"`
	Points    int            `gorm:"not null" json:"points"`
	Metadata  map[string]any `gorm:"type:jsonb;serializer:json" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
