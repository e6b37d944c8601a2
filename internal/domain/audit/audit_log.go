package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/finledger/backend/internal/domain/shared"
)

// Action is what happened to the audited entity
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionEdit   Action = "EDIT"
	ActionDelete Action = "DELETE"
	ActionVoid   Action = "VOID"
	ActionLogin  Action = "LOGIN"
	ActionLogout Action = "LOGOUT"
)

// IsValid checks if the action is valid
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionEdit, ActionDelete, ActionVoid, ActionLogin, ActionLogout:
		return true
	}
	return false
}

// Snapshot is a structured before/after value. Any storage format can serialize it.
type Snapshot map[string]any

// ToSnapshot converts an entity into its structured snapshot form
func ToSnapshot(v any) (Snapshot, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return s, nil
}

// AuditLog is an immutable record of one mutation. It is written once and never changed.
type AuditLog struct {
	ID         string    `json:"id"`
	PlanID     string    `json:"plan_id,omitempty"`
	Action     Action    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Before     Snapshot  `json:"before,omitempty"`
	After      Snapshot  `json:"after,omitempty"`
	ActorID    string    `json:"actor_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewAuditLog records action on an entity. before and after are converted to snapshots.
func NewAuditLog(action Action, entityType, entityID, actorID string, before, after any) (*AuditLog, error) {
	if !action.IsValid() {
		return nil, shared.NewValidationError("invalid audit action %q", action)
	}
	if strings.TrimSpace(actorID) == "" {
		return nil, shared.NewValidationError("audit actor is required")
	}
	if entityType == "" {
		return nil, shared.NewValidationError("audit entity type is required")
	}
	b, err := ToSnapshot(before)
	if err != nil {
		return nil, err
	}
	a, err := ToSnapshot(after)
	if err != nil {
		return nil, err
	}
	return &AuditLog{
		ID:         shared.NewID(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     b,
		After:      a,
		ActorID:    actorID,
		Timestamp:  time.Now(),
	}, nil
}

// GetBefore returns a copy of the before snapshot
func (l *AuditLog) GetBefore() Snapshot {
	return copySnapshot(l.Before)
}

// GetAfter returns a copy of the after snapshot
func (l *AuditLog) GetAfter() Snapshot {
	return copySnapshot(l.After)
}

func copySnapshot(s Snapshot) Snapshot {
	out := make(Snapshot, len(s))
	maps.Copy(out, s)
	return out
}

// Repository reads the audit trail. There is no update or delete.
type Repository interface {
	FindByEntity(ctx context.Context, entityType, entityID string) ([]AuditLog, error)
	List(ctx context.Context, filter shared.Filter) ([]AuditLog, int64, error)
}
