package models

import (
	"time"

	"github.com/finledger/backend/internal/domain/audit"
)

// AuditLogModel is the persistence model for the AuditLog domain entity.
// Rows are only ever inserted.
type AuditLogModel struct {
	ID         string               `gorm:"type:varchar(64);primaryKey"`
	PlanID     string               `gorm:"type:varchar(64);index"`
	Action     audit.Action         `gorm:"type:varchar(16);not null"`
	EntityType string               `gorm:"type:varchar(32);not null;index:idx_audit_entity,priority:1"`
	EntityID   string               `gorm:"type:varchar(128);not null;index:idx_audit_entity,priority:2"`
	Before     JSON[audit.Snapshot] `gorm:"type:jsonb"`
	After      JSON[audit.Snapshot] `gorm:"type:jsonb"`
	ActorID    string               `gorm:"type:varchar(64);not null;index"`
	Timestamp  time.Time            `gorm:"column:logged_at;not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain AuditLog entity.
func (m *AuditLogModel) ToDomain() *audit.AuditLog {
	return &audit.AuditLog{
		ID:         m.ID,
		PlanID:     m.PlanID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Before:     m.Before.Data,
		After:      m.After.Data,
		ActorID:    m.ActorID,
		Timestamp:  m.Timestamp,
	}
}

// AuditLogModelFromDomain creates a new persistence model from a domain AuditLog entity.
func AuditLogModelFromDomain(l *audit.AuditLog) *AuditLogModel {
	return &AuditLogModel{
		ID:         l.ID,
		PlanID:     l.PlanID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Before:     NewJSON(l.Before),
		After:      NewJSON(l.After),
		ActorID:    l.ActorID,
		Timestamp:  l.Timestamp,
	}
}
