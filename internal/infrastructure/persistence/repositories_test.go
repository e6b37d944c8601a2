package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/finledger/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSnapshotLoader_EmptyDatabase(t *testing.T) {
	db := setupTestDB(t)

	snap, err := NewGormSnapshotLoader(db).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Payments)
	assert.Empty(t, snap.Invoices)
	assert.True(t, snap.CashOpeningBalance.IsZero())
}

func TestGormRepositories_FindByID(t *testing.T) {
	db := setupTestDB(t)
	cust, bank := seed(t, db)
	ctx := context.Background()

	t.Run("finds stored rows", func(t *testing.T) {
		got, err := NewGormCustomerRepository(db).FindByID(ctx, cust.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lakshmi Traders", got.Name)

		acc, err := NewGormBankAccountRepository(db).FindByID(ctx, bank.ID)
		require.NoError(t, err)
		assert.True(t, acc.OpeningBalance.Equal(d("5000")))
		assert.Equal(t, ledger.AccountStatusActive, acc.Status)
	})

	t.Run("missing rows are NOT_FOUND", func(t *testing.T) {
		_, err := NewGormInvoiceRepository(db).FindByID(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = NewGormPaymentRepository(db).FindByID(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = NewGormLiabilityRepository(db).FindByID(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("cash opening balance", func(t *testing.T) {
		ob, err := NewGormBankAccountRepository(db).CashOpeningBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, ledger.CashMode, ob.Mode)
		assert.True(t, ob.Amount.Equal(d("1000")))
	})
}

func TestGormAuditLogRepository_List(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	for i, e := range []struct {
		action     audit.Action
		entityType string
		actor      string
	}{
		{audit.ActionCreate, "INVOICE", "staff-1"},
		{audit.ActionEdit, "INVOICE", "staff-1"},
		{audit.ActionCreate, "PAYMENT", "staff-2"},
		{audit.ActionLogin, "SESSION", "staff-2"},
		{audit.ActionVoid, "INVOICE", "staff-2"},
	} {
		entry, err := audit.NewAuditLog(e.action, e.entityType, "id", e.actor, nil, map[string]any{"n": i})
		require.NoError(t, err)
		entry.Timestamp = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(models.AuditLogModelFromDomain(entry)).Error)
	}
	repo := NewGormAuditLogRepository(db)

	tests := []struct {
		name      string
		filter    shared.Filter
		wantTotal int64
		wantFirst audit.Action
		wantLen   int
	}{
		{
			name:      "newest first by default",
			filter:    shared.DefaultFilter(),
			wantTotal: 5, wantLen: 5, wantFirst: audit.ActionVoid,
		},
		{
			name:      "filter by entity type",
			filter:    shared.Filter{Page: 1, PageSize: 10, Filters: map[string]any{"entity_type": "INVOICE"}},
			wantTotal: 3, wantLen: 3, wantFirst: audit.ActionVoid,
		},
		{
			name:      "filter by actor ascending",
			filter:    shared.Filter{Page: 1, PageSize: 10, OrderDir: "asc", Filters: map[string]any{"actor_id": "staff-2"}},
			wantTotal: 3, wantLen: 3, wantFirst: audit.ActionCreate,
		},
		{
			name:      "second page",
			filter:    shared.Filter{Page: 2, PageSize: 2, OrderDir: "asc"},
			wantTotal: 5, wantLen: 2, wantFirst: audit.ActionCreate,
		},
		{
			name:      "unknown sort column falls back to time",
			filter:    shared.Filter{Page: 1, PageSize: 1, OrderBy: "1; DROP TABLE audit_logs"},
			wantTotal: 5, wantLen: 1, wantFirst: audit.ActionVoid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			require.Len(t, logs, tt.wantLen)
			assert.Equal(t, tt.wantFirst, logs[0].Action)
		})
	}

	t.Run("snapshots survive storage", func(t *testing.T) {
		logs, err := repo.FindByEntity(ctx, "PAYMENT", "id")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.EqualValues(t, 2, logs[0].After["n"])
		assert.Nil(t, logs[0].Before)
	})
}
