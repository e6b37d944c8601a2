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
)

// LedgerService is the part of the ledger application service the HTTP
// layer calls. *appledger.Service implements it.
type LedgerService interface {
	ApplyPayment(ctx context.Context, in ledger.PaymentInput, actorID string) (*reconcile.Plan, error)
	EditPayment(ctx context.Context, paymentID string, in ledger.PaymentInput, actorID string) (*reconcile.Plan, error)
	ReversePayment(ctx context.Context, paymentID, actorID string) (*reconcile.Plan, error)
	BulkDeletePayments(ctx context.Context, paymentIDs []string, actorID string) (*reconcile.BulkPlan, error)

	CreateInvoice(ctx context.Context, in invoice.Input, actorID string) (*reconcile.Plan, error)
	BulkCreateInvoices(ctx context.Context, inputs []invoice.Input, actorID string) (*reconcile.BulkPlan, error)
	VoidInvoice(ctx context.Context, invoiceID, reason, actorID string) (*reconcile.Plan, error)
	DeleteInvoice(ctx context.Context, invoiceID, actorID string) (*reconcile.Plan, error)
	BulkDeleteInvoices(ctx context.Context, invoiceIDs []string, actorID string) (*reconcile.BulkPlan, error)

	RecordAuction(ctx context.Context, groupID string, req reconcile.AuctionRequest, actorID string) (*reconcile.Plan, error)
	DeleteAuction(ctx context.Context, groupID, auctionID, actorID string) (*reconcile.Plan, error)
	RecordContribution(ctx context.Context, investmentID string, in investment.ContributionInput, actorID string) (*reconcile.Plan, error)

	CreateCustomer(ctx context.Context, in partner.CustomerInput, actorID string) (*reconcile.Plan, error)
	CreateBankAccount(ctx context.Context, in reconcile.BankAccountInput, actorID string) (*reconcile.Plan, error)
	ArchiveBankAccount(ctx context.Context, accountID, actorID string) (*reconcile.Plan, error)
	SetOpeningBalance(ctx context.Context, mode string, amount decimal.Decimal, actorID string) (*reconcile.Plan, error)
	CreateChitGroup(ctx context.Context, in chit.GroupInput, actorID string) (*reconcile.Plan, error)
	CreateInvestment(ctx context.Context, in investment.Input, actorID string) (*reconcile.Plan, error)
	CreateLiability(ctx context.Context, in partner.LiabilityInput, actorID string) (*reconcile.Plan, error)
	RecordSession(ctx context.Context, action audit.Action, actorID string) error

	Balances(ctx context.Context) ([]appledger.AccountBalance, error)
	Balance(ctx context.Context, mode string) (decimal.Decimal, error)
	Dashboard(ctx context.Context) (report.DashboardStats, error)
	Invoice(ctx context.Context, id string) (*invoice.Invoice, error)
	ChitState(ctx context.Context, groupID string) (chit.ChitState, error)
	InvestmentTotal(ctx context.Context, investmentID string) (decimal.Decimal, error)
	AuditLogs(ctx context.Context, entityType, entityID string, filter shared.Filter) ([]audit.AuditLog, int64, error)
}

var _ LedgerService = (*appledger.Service)(nil)
