//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/finledger/backend/internal/infrastructure/migration"
	"github.com/finledger/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupPostgres starts a throwaway PostgreSQL and applies the shipped migrations
func setupPostgres(t *testing.T) (*gorm.DB, *migration.Migrator) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("finledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("ledger123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migration.EmbeddedSource(migrations.FS), nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db, m
}

func TestPostgres_MigrationsMatchModels(t *testing.T) {
	db, m := setupPostgres(t)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	cust, bank := seed(t, db)
	ctx := context.Background()
	c := reconcile.NewCoordinator()
	exec := NewGormPlanExecutor(db)
	loader := NewGormSnapshotLoader(db)

	snap, err := loader.Load(ctx)
	require.NoError(t, err)
	p, err := c.CreateInvoice(snap, invoice.Input{
		CustomerID: cust.ID,
		Type:       invoice.TypeRoyalty,
		Amount:     d("2500"),
		IssueDate:  time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}, actor)
	require.NoError(t, err)
	require.NoError(t, exec.Execute(ctx, p))

	snap, err = loader.Load(ctx)
	require.NoError(t, err)
	p, err = c.ApplyPayment(snap, ledger.PaymentInput{
		Type:      ledger.PaymentTypeIn,
		Mode:      bank.ID,
		Amount:    d("2500"),
		InvoiceID: snap.Invoices[0].ID,
	}, actor)
	require.NoError(t, err)
	require.NoError(t, exec.Execute(ctx, p))

	snap, err = loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0001", snap.Invoices[0].InvoiceNumber)
	assert.Equal(t, invoice.StatusPaid, snap.Invoices[0].Status)
	assert.True(t, snap.Invoices[0].Balance.IsZero())
	assert.Empty(t, reconcile.Verify(snap))
}

func TestPostgres_DuplicateInvoiceNumberIsSequenceConflict(t *testing.T) {
	db, _ := setupPostgres(t)
	cust, _ := seed(t, db)
	ctx := context.Background()
	c := reconcile.NewCoordinator()
	exec := NewGormPlanExecutor(db)

	snap, err := NewGormSnapshotLoader(db).Load(ctx)
	require.NoError(t, err)
	in := invoice.Input{CustomerID: cust.ID, Type: invoice.TypeInterest, Amount: d("300")}
	a, err := c.CreateInvoice(snap, in, actor)
	require.NoError(t, err)
	b, err := c.CreateInvoice(snap, in, actor)
	require.NoError(t, err)

	require.NoError(t, exec.Execute(ctx, a))
	err = exec.Execute(ctx, b)
	require.Error(t, err)
	assert.Equal(t, shared.CodeSequenceConflict, shared.ErrorCode(err))
}

func TestPostgres_AuditLogsAreAppendOnly(t *testing.T) {
	db, _ := setupPostgres(t)
	seed(t, db)

	err := db.Exec("UPDATE audit_logs SET actor_id = 'someone-else'").Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")

	err = db.Exec("DELETE FROM audit_logs").Error
	require.Error(t, err)
}

func TestPostgres_MigrateDown(t *testing.T) {
	db, m := setupPostgres(t)
	require.NoError(t, m.Down())

	var tables int64
	require.NoError(t, db.Raw(
		"SELECT count(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name <> 'schema_migrations'",
	).Scan(&tables).Error)
	assert.Zero(t, tables)
}
