package storage

import (
	"context"
	"testing"
	"time"

	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func committedPlan(t *testing.T, at time.Time, logs int) *reconcile.PlanCommittedEvent {
	t.Helper()
	plan := &reconcile.Plan{ID: "plan-42", Operation: reconcile.OpApplyPayment, ActorID: "u-1"}
	for i := 0; i < logs; i++ {
		entry, err := audit.NewAuditLog(audit.ActionCreate, string(reconcile.EntityPayment), "pay-1", "u-1",
			nil, map[string]any{"amount": "100.00"})
		require.NoError(t, err)
		plan.AuditLogs = append(plan.AuditLogs, entry)
		plan.Writes = append(plan.Writes, reconcile.Write{Op: reconcile.OpInsert, Entity: reconcile.EntityPayment, ID: "pay-1"})
	}
	ev := reconcile.NewPlanCommittedEvent(plan)
	ev.Timestamp = at
	return ev
}

func TestAuditArchiver_Key(t *testing.T) {
	a := NewAuditArchiver(NewMemoryObjectStorage(), "/audit/", nil)
	at := time.Date(2025, 3, 31, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, "audit/2025/03/31/plan-1.json", a.Key("plan-1", at))

	bare := NewAuditArchiver(NewMemoryObjectStorage(), "", nil)
	assert.Equal(t, "2025/03/31/plan-1.json", bare.Key("plan-1", at))
}

func TestAuditArchiver_Handle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStorage()
	a := NewAuditArchiver(store, "audit", nil)
	at := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

	require.Equal(t, []string{reconcile.EventTypePlanCommitted}, a.EventTypes())
	require.NoError(t, a.Handle(ctx, committedPlan(t, at, 1)))

	keys, err := a.Keys(ctx, at)
	require.NoError(t, err)
	require.Equal(t, []string{"audit/2025/01/02/plan-42.json"}, keys)

	doc, err := a.Fetch(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, "plan-42", doc.PlanID)
	assert.Equal(t, reconcile.OpApplyPayment, doc.Operation)
	assert.Equal(t, 1, doc.Writes)
	require.Len(t, doc.AuditLogs, 1)
	assert.Equal(t, audit.ActionCreate, doc.AuditLogs[0].Action)
	assert.Equal(t, "100.00", doc.AuditLogs[0].After["amount"])

	// replays overwrite the same object
	require.NoError(t, a.Handle(ctx, committedPlan(t, at, 1)))
	keys, err = a.Keys(ctx, at)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestAuditArchiver_SkipsPlansWithoutAuditLogs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStorage()
	a := NewAuditArchiver(store, "audit", nil)

	require.NoError(t, a.Handle(ctx, committedPlan(t, time.Now(), 0)))
	keys, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestAuditArchiver_RejectsOtherEvents(t *testing.T) {
	a := NewAuditArchiver(NewMemoryObjectStorage(), "audit", nil)
	ev := shared.NewBaseDomainEvent("InvoiceVoided", "Invoice", "inv-1")
	assert.Error(t, a.Handle(context.Background(), &ev))
}
