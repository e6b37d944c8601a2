package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ArchivedPlan is the archive document of one committed plan
type ArchivedPlan struct {
	PlanID      string            `json:"plan_id"`
	Operation   string            `json:"operation"`
	ActorID     string            `json:"actor_id"`
	CommittedAt time.Time         `json:"committed_at"`
	Writes      int               `json:"writes"`
	AuditLogs   []*audit.AuditLog `json:"audit_logs"`
}

// AuditArchiver copies the audit logs of every committed plan to object storage.
// Objects are keyed <prefix>/<yyyy>/<mm>/<dd>/<plan id>.json by UTC commit date,
// so replaying an event overwrites the same object.
type AuditArchiver struct {
	store  ObjectStore
	prefix string
	logger *zap.Logger
}

// NewAuditArchiver creates an archiver writing under prefix
func NewAuditArchiver(store ObjectStore, prefix string, logger *zap.Logger) *AuditArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditArchiver{
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		logger: logger.Named("audit_archive"),
	}
}

// Key returns the object key of a plan committed at t
func (a *AuditArchiver) Key(planID string, t time.Time) string {
	return path.Join(a.dayPrefix(t), planID+".json")
}

func (a *AuditArchiver) dayPrefix(t time.Time) string {
	return path.Join(a.prefix, t.UTC().Format("2006/01/02"))
}

// EventTypes implements shared.EventHandler
func (a *AuditArchiver) EventTypes() []string {
	return []string{reconcile.EventTypePlanCommitted}
}

// Handle archives a PlanCommitted event. Plans without audit logs are skipped.
func (a *AuditArchiver) Handle(ctx context.Context, event shared.DomainEvent) error {
	committed, ok := event.(*reconcile.PlanCommittedEvent)
	if !ok {
		return fmt.Errorf("audit archive: unexpected event %T", event)
	}
	if len(committed.AuditLogs) == 0 {
		return nil
	}
	doc := ArchivedPlan{
		PlanID:      committed.PlanID,
		Operation:   committed.Operation,
		ActorID:     committed.ActorID,
		CommittedAt: committed.OccurredAt().UTC(),
		Writes:      committed.Writes,
		AuditLogs:   committed.AuditLogs,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode archived plan %s: %w", doc.PlanID, err)
	}
	key := a.Key(doc.PlanID, doc.CommittedAt)
	if err := a.store.Put(ctx, key, data, "application/json"); err != nil {
		return fmt.Errorf("archive plan %s: %w", doc.PlanID, err)
	}
	a.logger.Debug("Plan archived",
		zap.String("plan_id", doc.PlanID),
		zap.String("key", key),
		zap.Int("audit_logs", len(doc.AuditLogs)))
	return nil
}

// Fetch reads one archived plan
func (a *AuditArchiver) Fetch(ctx context.Context, key string) (*ArchivedPlan, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var doc ArchivedPlan
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode archived plan %s: %w", key, err)
	}
	return &doc, nil
}

// Keys lists the archived plans of one UTC day
func (a *AuditArchiver) Keys(ctx context.Context, day time.Time) ([]string, error) {
	return a.store.List(ctx, a.dayPrefix(day)+"/")
}

var _ shared.EventHandler = (*AuditArchiver)(nil)
