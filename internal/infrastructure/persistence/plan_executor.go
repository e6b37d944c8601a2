package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/finledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPlanExecutor commits write plans in one database transaction.
// Writes run in plan order; UPDATE and DELETE carry the expected version in
// their WHERE clause, so a row that moved on matches nothing and the whole
// transaction rolls back with CONCURRENCY_CONFLICT.
type GormPlanExecutor struct {
	db *gorm.DB
}

// NewGormPlanExecutor creates a new GormPlanExecutor
func NewGormPlanExecutor(db *gorm.DB) *GormPlanExecutor {
	return &GormPlanExecutor{db: db}
}

// Execute commits every write and audit log of the plan, or none of them
func (e *GormPlanExecutor) Execute(ctx context.Context, plan *reconcile.Plan) error {
	if plan == nil || plan.IsEmpty() {
		return nil
	}
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, w := range plan.Writes {
			if err := applyWrite(tx, w); err != nil {
				return fmt.Errorf("write %d (%s %s %s): %w", i+1, w.Op, w.Entity, w.ID, err)
			}
		}
		if len(plan.AuditLogs) == 0 {
			return nil
		}
		rows := make([]*models.AuditLogModel, len(plan.AuditLogs))
		for i, entry := range plan.AuditLogs {
			rows[i] = models.AuditLogModelFromDomain(entry)
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert audit logs: %w", translateError(err))
		}
		return nil
	})
	if err != nil {
		return translateError(err)
	}
	return nil
}

func applyWrite(tx *gorm.DB, w reconcile.Write) error {
	model, err := toModel(w)
	if err != nil {
		return err
	}

	switch w.Op {
	case reconcile.OpInsert:
		if err := tx.Create(model).Error; err != nil {
			return insertError(w, err)
		}
		return nil

	case reconcile.OpUpsert:
		return translateError(tx.Save(model).Error)

	case reconcile.OpUpdate:
		res := tx.Model(model).Where("version = ?", w.ExpectedVersion).Select("*").Updates(model)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return shared.NewConcurrencyConflict("%s %s is no longer at version %d", w.Entity, w.ID, w.ExpectedVersion)
		}
		return nil

	case reconcile.OpDelete:
		res := tx.Where("id = ? AND version = ?", w.ID, w.ExpectedVersion).Delete(model)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return shared.NewConcurrencyConflict("%s %s is no longer at version %d", w.Entity, w.ID, w.ExpectedVersion)
		}
		return nil
	}
	return fmt.Errorf("unknown op %q", w.Op)
}

// insertError reports a taken invoice number as a sequence conflict so the
// caller replans with a fresh allocator. Any other duplicate is an integrity fault.
func insertError(w reconcile.Write, err error) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return translateError(err)
	}
	if w.Entity == reconcile.EntityInvoice {
		number := ""
		if inv, ok := w.Value.(*invoice.Invoice); ok {
			number = inv.InvoiceNumber
		}
		return shared.NewSequenceConflict("invoice number %s was taken by a concurrent writer", number)
	}
	return shared.NewIntegrityViolation("%s %s already exists", w.Entity, w.ID)
}

// toModel converts a write's value into its persistence model.
// DELETE writes may carry no value; they get an empty model of the right table.
func toModel(w reconcile.Write) (any, error) {
	if w.Op == reconcile.OpDelete {
		return emptyModel(w.Entity)
	}
	switch v := w.Value.(type) {
	case *ledger.Payment:
		return models.PaymentModelFromDomain(v), nil
	case *ledger.BankAccount:
		return models.BankAccountModelFromDomain(v), nil
	case *ledger.OpeningBalance:
		return models.OpeningBalanceModelFromDomain(v), nil
	case *invoice.Invoice:
		return models.InvoiceModelFromDomain(v), nil
	case *chit.ChitGroup:
		return models.ChitGroupModelFromDomain(v), nil
	case *investment.Investment:
		return models.InvestmentModelFromDomain(v), nil
	case *partner.Customer:
		return models.CustomerModelFromDomain(v), nil
	case *partner.Liability:
		return models.LiabilityModelFromDomain(v), nil
	}
	return nil, fmt.Errorf("%s write carries %T", w.Entity, w.Value)
}

func emptyModel(entity reconcile.EntityType) (any, error) {
	switch entity {
	case reconcile.EntityPayment:
		return &models.PaymentModel{}, nil
	case reconcile.EntityInvoice:
		return &models.InvoiceModel{}, nil
	case reconcile.EntityChitGroup:
		return &models.ChitGroupModel{}, nil
	case reconcile.EntityInvestment:
		return &models.InvestmentModel{}, nil
	case reconcile.EntityLiability:
		return &models.LiabilityModel{}, nil
	case reconcile.EntityCustomer:
		return &models.CustomerModel{}, nil
	case reconcile.EntityBankAccount:
		return &models.BankAccountModel{}, nil
	}
	return nil, fmt.Errorf("entity %q cannot be deleted", entity)
}
