package handler

import (
	"context"

	appledger "github.com/finledger/backend/internal/application/ledger"
	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/domain/report"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockLedgerService implements LedgerService for testing
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) plan(args mock.Arguments) (*reconcile.Plan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.Plan), args.Error(1)
}

func (m *MockLedgerService) bulkPlan(args mock.Arguments) (*reconcile.BulkPlan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.BulkPlan), args.Error(1)
}

func (m *MockLedgerService) ApplyPayment(ctx context.Context, in ledger.PaymentInput, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, in, actorID))
}

func (m *MockLedgerService) EditPayment(ctx context.Context, paymentID string, in ledger.PaymentInput, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, paymentID, in, actorID))
}

func (m *MockLedgerService) ReversePayment(ctx context.Context, paymentID, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, paymentID, actorID))
}

func (m *MockLedgerService) BulkDeletePayments(ctx context.Context, paymentIDs []string, actorID string) (*reconcile.BulkPlan, error) {
	return m.bulkPlan(m.Called(ctx, paymentIDs, actorID))
}

func (m *MockLedgerService) CreateInvoice(ctx context.Context, in invoice.Input, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, in, actorID))
}

func (m *MockLedgerService) BulkCreateInvoices(ctx context.Context, inputs []invoice.Input, actorID string) (*reconcile.BulkPlan, error) {
	return m.bulkPlan(m.Called(ctx, inputs, actorID))
}

func (m *MockLedgerService) VoidInvoice(ctx context.Context, invoiceID, reason, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, invoiceID, reason, actorID))
}

func (m *MockLedgerService) DeleteInvoice(ctx context.Context, invoiceID, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, invoiceID, actorID))
}

func (m *MockLedgerService) BulkDeleteInvoices(ctx context.Context, invoiceIDs []string, actorID string) (*reconcile.BulkPlan, error) {
	return m.bulkPlan(m.Called(ctx, invoiceIDs, actorID))
}

func (m *MockLedgerService) RecordAuction(ctx context.Context, groupID string, req reconcile.AuctionRequest, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, groupID, req, actorID))
}

func (m *MockLedgerService) DeleteAuction(ctx context.Context, groupID, auctionID, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, groupID, auctionID, actorID))
}

func (m *MockLedgerService) RecordContribution(ctx context.Context, investmentID string, in investment.ContributionInput, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, investmentID, in, actorID))
}

func (m *MockLedgerService) CreateCustomer(ctx context.Context, in partner.CustomerInput, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, in, actorID))
}

func (m *MockLedgerService) CreateBankAccount(ctx context.Context, in reconcile.BankAccountInput, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, in, actorID))
}

func (m *MockLedgerService) ArchiveBankAccount(ctx context.Context, accountID, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, accountID, actorID))
}

func (m *MockLedgerService) SetOpeningBalance(ctx context.Context, mode string, amount decimal.Decimal, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, mode, amount, actorID))
}

func (m *MockLedgerService) CreateChitGroup(ctx context.Context, in chit.GroupInput, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, in, actorID))
}

func (m *MockLedgerService) CreateInvestment(ctx context.Context, in investment.Input, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, in, actorID))
}

func (m *MockLedgerService) CreateLiability(ctx context.Context, in partner.LiabilityInput, actorID string) (*reconcile.Plan, error) {
	return m.plan(m.Called(ctx, in, actorID))
}

func (m *MockLedgerService) RecordSession(ctx context.Context, action audit.Action, actorID string) error {
	return m.Called(ctx, action, actorID).Error(0)
}

func (m *MockLedgerService) Balances(ctx context.Context) ([]appledger.AccountBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appledger.AccountBalance), args.Error(1)
}

func (m *MockLedgerService) Balance(ctx context.Context, mode string) (decimal.Decimal, error) {
	args := m.Called(ctx, mode)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) Dashboard(ctx context.Context) (report.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.DashboardStats), args.Error(1)
}

func (m *MockLedgerService) Invoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockLedgerService) ChitState(ctx context.Context, groupID string) (chit.ChitState, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(chit.ChitState), args.Error(1)
}

func (m *MockLedgerService) InvestmentTotal(ctx context.Context, investmentID string) (decimal.Decimal, error) {
	args := m.Called(ctx, investmentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) AuditLogs(ctx context.Context, entityType, entityID string, filter shared.Filter) ([]audit.AuditLog, int64, error) {
	args := m.Called(ctx, entityType, entityID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]audit.AuditLog), args.Get(1).(int64), args.Error(2)
}

var _ LedgerService = (*MockLedgerService)(nil)
