package main

import (
	"testing"

	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanners(t *testing.T) {
	co := reconcile.NewCoordinator()

	t.Run("void invoice", func(t *testing.T) {
		snap := loadSample(t)
		cmd := &planCmd{id: "inv-1", reason: "duplicate", actor: "ledgerctl"}
		out, err := planners["void-invoice"](cmd, co, snap)
		require.NoError(t, err)

		plan, ok := out.(*reconcile.Plan)
		require.True(t, ok)
		require.NotEmpty(t, plan.Writes)
		assert.Equal(t, reconcile.EntityInvoice, plan.Writes[0].Entity)
		require.Len(t, plan.AuditLogs, 1)
		assert.Equal(t, "ledgerctl", plan.AuditLogs[0].ActorID)
	})

	t.Run("unknown payment", func(t *testing.T) {
		snap := loadSample(t)
		_, err := planners["reverse-payment"](&planCmd{id: "p-404", actor: "ledgerctl"}, co, snap)
		require.Error(t, err)
	})

	t.Run("input operations need -input", func(t *testing.T) {
		snap := loadSample(t)
		cmd := &planCmd{op: "apply-payment", actor: "ledgerctl"}
		_, err := planners["apply-payment"](cmd, co, snap)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "-input is required")
	})

	t.Run("does not touch the snapshot", func(t *testing.T) {
		snap := loadSample(t)
		_, err := planners["void-invoice"](&planCmd{id: "inv-1", actor: "ledgerctl"}, co, snap)
		require.NoError(t, err)
		assert.False(t, snap.Invoices[0].IsVoid)
		assert.Equal(t, invoice.StatusUnpaid, snap.Invoices[0].Status)
	})
}

func TestPlanUsageListsOperations(t *testing.T) {
	usage := (&planCmd{}).Usage()
	for op := range planners {
		assert.Contains(t, usage, op)
	}
}
