package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finledger/backend/internal/domain/reconcile"
	"gorm.io/gorm"
)

// GormSnapshotLoader reads the whole ledger in one read transaction so the
// coordinator never sees a half-applied plan.
type GormSnapshotLoader struct {
	db       *gorm.DB
	txOption *sql.TxOptions
}

// NewGormSnapshotLoader creates a loader over db. Postgres reads run at
// REPEATABLE READ; SQLite transactions are already serializable.
func NewGormSnapshotLoader(db *gorm.DB) *GormSnapshotLoader {
	l := &GormSnapshotLoader{db: db}
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		l.txOption = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return l
}

// Load returns the current state of every entity the coordinator reasons about
func (l *GormSnapshotLoader) Load(ctx context.Context) (*reconcile.Snapshot, error) {
	var snap *reconcile.Snapshot
	load := func(tx *gorm.DB) error {
		var err error
		snap, err = loadSnapshot(ctx, tx)
		return err
	}
	var err error
	if l.txOption != nil {
		err = l.db.WithContext(ctx).Transaction(load, l.txOption)
	} else {
		err = l.db.WithContext(ctx).Transaction(load)
	}
	if err != nil {
		return nil, translateError(err)
	}
	return snap, nil
}

func loadSnapshot(ctx context.Context, tx *gorm.DB) (*reconcile.Snapshot, error) {
	snap := &reconcile.Snapshot{}
	var err error
	if snap.Customers, err = NewGormCustomerRepository(tx).FindAll(ctx); err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	if snap.Invoices, err = NewGormInvoiceRepository(tx).FindAll(ctx); err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	if snap.Payments, err = NewGormPaymentRepository(tx).FindAll(ctx); err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	if snap.Liabilities, err = NewGormLiabilityRepository(tx).FindAll(ctx); err != nil {
		return nil, fmt.Errorf("load liabilities: %w", err)
	}
	if snap.Investments, err = NewGormInvestmentRepository(tx).FindAll(ctx); err != nil {
		return nil, fmt.Errorf("load investments: %w", err)
	}
	if snap.ChitGroups, err = NewGormChitGroupRepository(tx).FindAll(ctx); err != nil {
		return nil, fmt.Errorf("load chit groups: %w", err)
	}
	accounts := NewGormBankAccountRepository(tx)
	if snap.BankAccounts, err = accounts.FindAll(ctx); err != nil {
		return nil, fmt.Errorf("load bank accounts: %w", err)
	}
	cash, err := accounts.CashOpeningBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cash opening balance: %w", err)
	}
	snap.CashOpeningBalance = cash.Amount
	return snap, nil
}
