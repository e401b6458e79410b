package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog records one admin mutation. Detail carries the
// action-specific payload (changed fields, previous status, ...).
type AuditLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActorID   uuid.UUID      `gorm:"type:uuid;not null;index;column:actor_id" json:"actor_id"`
	Action    string         `gorm:"not null;column:action" json:"action"`
	Entity    string         `gorm:"not null;column:entity" json:"entity"`
	EntityID  string         `gorm:"column:entity_id" json:"entity_id"`
	Detail    datatypes.JSON `gorm:"column:detail" json:"detail,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
