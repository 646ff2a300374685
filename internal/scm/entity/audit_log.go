package entity

import (
	"time"
)

// AuditLog records who did what to which entity. Write-only surface; nothing
// computes over it.
type AuditLog struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Action     string    `json:"action" gorm:"size:50;not null"`
	EntityType string    `json:"entity_type" gorm:"size:50;not null"`
	EntityID   string    `json:"entity_id" gorm:"size:64;not null"`
	UserID     string    `json:"user_id" gorm:"size:64;not null"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null"`
}

func (AuditLog) TableName() string {
	return "scm_audit_logs"
}
