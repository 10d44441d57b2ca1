package models

import (
	"time"
)

// Deletion request lifecycle.
const (
	DeletionPending    = "pending"
	DeletionProcessing = "processing"
	DeletionCompleted  = "completed"
	DeletionCancelled  = "cancelled"
)

// ConsentLog is append-only; the current consent state per type is the most
// recent row for that type.
type ConsentLog struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID         string    `gorm:"index;not null" json:"user_id"`
	ConsentType    string    `gorm:"not null" json:"consent_type"` // e.g. analytics, location, marketing
	Granted        bool      `gorm:"not null" json:"granted"`
	ConsentVersion string    `gorm:"default:'1.0'" json:"consent_version"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DeletionRequest tracks an account deletion with its 30-day grace period.
// A failed processing run reverts the row to pending so the next run
// retries it.
type DeletionRequest struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string     `gorm:"index;not null" json:"user_id"`
	Reason       *string    `json:"reason,omitempty"`
	Status       string     `gorm:"not null;default:'pending'" json:"status"`
	ScheduledFor time.Time  `gorm:"not null" json:"scheduled_for"`
	RequestedAt  time.Time  `gorm:"autoCreateTime" json:"requested_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ProcessedBy  string     `json:"processed_by,omitempty"`
}
