package persistence

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/finledger/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPlanExecutor_PaymentSettlesInvoice(t *testing.T) {
	db := setupTestDB(t)
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
		Amount:     d("1000"),
		IssueDate:  time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}, actor)
	require.NoError(t, err)
	require.NoError(t, exec.Execute(ctx, p))
	invoiceID := p.Writes[0].ID

	snap, err = loader.Load(ctx)
	require.NoError(t, err)
	p, err = c.ApplyPayment(snap, ledger.PaymentInput{
		Type:      ledger.PaymentTypeIn,
		Mode:      bank.ID,
		Amount:    d("400"),
		InvoiceID: invoiceID,
	}, actor)
	require.NoError(t, err)
	require.NoError(t, exec.Execute(ctx, p))

	snap, err = loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Invoices, 1)
	inv := snap.Invoices[0]
	assert.Equal(t, "INV-2024-0001", inv.InvoiceNumber)
	assert.True(t, inv.Balance.Equal(d("600")), inv.Balance.String())
	assert.Equal(t, invoice.StatusPartial, inv.Status)
	assert.Equal(t, 2, inv.Version)

	balances := ledger.ComputeBalances(snap.Payments, snap.OpeningBalances())
	assert.True(t, balances[bank.Mode()].Equal(d("5400")))
	assert.True(t, balances[ledger.CashMode].Equal(d("1000")))
	assert.Empty(t, reconcile.Verify(snap))
}

func TestGormPlanExecutor_StaleVersionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	cust, _ := seed(t, db)
	ctx := context.Background()
	c := reconcile.NewCoordinator()
	exec := NewGormPlanExecutor(db)
	loader := NewGormSnapshotLoader(db)

	snap, err := loader.Load(ctx)
	require.NoError(t, err)
	p, err := c.CreateInvoice(snap, invoice.Input{CustomerID: cust.ID, Type: invoice.TypeRoyalty, Amount: d("1000")}, actor)
	require.NoError(t, err)
	require.NoError(t, exec.Execute(ctx, p))

	stale, err := loader.Load(ctx)
	require.NoError(t, err)
	invoiceID := stale.Invoices[0].ID

	// a concurrent writer pays first
	first, err := c.ApplyPayment(stale, ledger.PaymentInput{Type: ledger.PaymentTypeIn, Mode: "CASH", Amount: d("100"), InvoiceID: invoiceID}, actor)
	require.NoError(t, err)
	require.NoError(t, exec.Execute(ctx, first))

	second, err := c.ApplyPayment(stale, ledger.PaymentInput{Type: ledger.PaymentTypeIn, Mode: "CASH", Amount: d("200"), InvoiceID: invoiceID}, actor)
	require.NoError(t, err)
	err = exec.Execute(ctx, second)
	require.Error(t, err)
	assert.Equal(t, shared.CodeConcurrencyConflict, shared.ErrorCode(err))
	assert.True(t, shared.IsRetryable(err))

	// the payment insert that preceded the failed update is gone too
	var payments int64
	require.NoError(t, db.Model(&models.PaymentModel{}).Count(&payments).Error)
	assert.Equal(t, int64(1), payments)
	var entries int64
	require.NoError(t, db.Model(&models.AuditLogModel{}).Where("plan_id = ?", second.ID).Count(&entries).Error)
	assert.Zero(t, entries)
}

func TestGormPlanExecutor_DuplicateInvoiceNumber(t *testing.T) {
	db := setupTestDB(t)
	cust, _ := seed(t, db)
	ctx := context.Background()
	c := reconcile.NewCoordinator()
	exec := NewGormPlanExecutor(db)

	snap, err := NewGormSnapshotLoader(db).Load(ctx)
	require.NoError(t, err)
	in := invoice.Input{CustomerID: cust.ID, Type: invoice.TypeRoyalty, Amount: d("500"), IssueDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

	// both plans were computed from the same snapshot and picked the same number
	a, err := c.CreateInvoice(snap, in, actor)
	require.NoError(t, err)
	b, err := c.CreateInvoice(snap, in, actor)
	require.NoError(t, err)

	require.NoError(t, exec.Execute(ctx, a))
	err = exec.Execute(ctx, b)
	require.Error(t, err)
	assert.Equal(t, shared.CodeSequenceConflict, shared.ErrorCode(err))
}

func TestGormPlanExecutor_ChitAndInvestmentRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := reconcile.NewCoordinator()
	exec := NewGormPlanExecutor(db)
	loader := NewGormSnapshotLoader(db)

	step := func(build func(*reconcile.Snapshot) (*reconcile.Plan, error)) *reconcile.Plan {
		t.Helper()
		snap, err := loader.Load(ctx)
		require.NoError(t, err)
		p, err := build(snap)
		require.NoError(t, err)
		require.NoError(t, exec.Execute(ctx, p))
		return p
	}

	member := func(name string) string {
		return step(func(s *reconcile.Snapshot) (*reconcile.Plan, error) {
			return c.CreateCustomer(s, partner.CustomerInput{Name: name, Portfolio: partner.Portfolio{IsChit: true}}, actor)
		}).Writes[0].ID
	}
	m1, m2 := member("Ravi"), member("Meena")

	group := step(func(s *reconcile.Snapshot) (*reconcile.Plan, error) {
		return c.CreateChitGroup(s, chit.GroupInput{
			Name:                 "Diwali 5L",
			TotalValue:           d("500000"),
			DurationMonths:       2,
			MonthlyInstallment:   d("250000"),
			CommissionPercentage: d("5"),
			Members:              []string{m1, m2},
		}, actor)
	}).Writes[0].ID

	step(func(s *reconcile.Snapshot) (*reconcile.Plan, error) {
		return c.RecordAuction(s, group, reconcile.AuctionRequest{
			AuctionInput: chit.AuctionInput{Month: 1, WinnerID: m1, BidAmount: d("40000"), DividendPerMember: d("7500")},
		}, actor)
	})

	inv := step(func(s *reconcile.Snapshot) (*reconcile.Plan, error) {
		return c.CreateInvestment(s, investment.Input{
			Name:             "Gold bond",
			Category:         investment.CategoryGold,
			ContributionType: investment.ContributionMonthly,
		}, actor)
	}).Writes[0].ID

	step(func(s *reconcile.Snapshot) (*reconcile.Plan, error) {
		return c.RecordContribution(s, inv, investment.ContributionInput{AmountPaid: d("2500"), Month: 1}, actor)
	})

	snap, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.ChitGroups, 1)
	g := snap.ChitGroups[0]
	assert.Equal(t, 1, g.CurrentMonth)
	require.Len(t, g.Auctions, 1)
	assert.Equal(t, m1, g.Auctions[0].WinnerID)
	assert.True(t, g.Auctions[0].CommissionAmount.Equal(d("25000")))
	assert.Equal(t, chit.Members{m1, m2}, g.Members)

	require.Len(t, snap.Investments, 1)
	require.Len(t, snap.Investments[0].Transactions, 1)
	assert.True(t, investment.ComputeInvestmentTotal(&snap.Investments[0], snap.Investments[0].Transactions).Equal(d("2500")))

	logs, err := NewGormAuditLogRepository(db).FindByEntity(ctx, string(reconcile.EntityChitGroup), group)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, audit.ActionCreate, logs[0].Action)
	assert.Equal(t, "Diwali 5L", logs[0].After["name"])
}

func TestGormPlanExecutor_EmptyPlanIsNoop(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	require.NoError(t, NewGormPlanExecutor(db).Execute(context.Background(), &reconcile.Plan{ID: "p"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPlanExecutor_DeleteMatchingNoRow(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "payments"`).
		WithArgs("pay-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	plan := &reconcile.Plan{ID: "p", Writes: []reconcile.Write{
		{Op: reconcile.OpDelete, Entity: reconcile.EntityPayment, ID: "pay-1", ExpectedVersion: 3},
	}}
	err := NewGormPlanExecutor(db).Execute(context.Background(), plan)
	require.Error(t, err)
	assert.Equal(t, shared.CodeConcurrencyConflict, shared.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPlanExecutor_ConnectionLoss(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "invoices"`).
		WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})
	mock.ExpectRollback()

	plan := &reconcile.Plan{ID: "p", Writes: []reconcile.Write{
		{Op: reconcile.OpDelete, Entity: reconcile.EntityInvoice, ID: "inv-1", ExpectedVersion: 1},
	}}
	err := NewGormPlanExecutor(db).Execute(context.Background(), plan)
	require.Error(t, err)
	assert.Equal(t, shared.CodeStorageUnavailable, shared.ErrorCode(err))
	assert.True(t, shared.IsTransient(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPlanExecutor_RejectsUnknownValue(t *testing.T) {
	db := setupTestDB(t)
	plan := &reconcile.Plan{ID: "p", Writes: []reconcile.Write{
		{Op: reconcile.OpInsert, Entity: reconcile.EntityPayment, ID: "x", Value: "not a payment"},
	}}
	err := NewGormPlanExecutor(db).Execute(context.Background(), plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carries string")
}
