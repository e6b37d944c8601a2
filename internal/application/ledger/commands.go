package ledger

import (
	"context"

	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ApplyPayment records a voucher and settles its invoice or liability
func (s *Service) ApplyPayment(ctx context.Context, in ledger.PaymentInput, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpApplyPayment, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.ApplyPayment(snap, in, actorID)
	})
}

// EditPayment replaces a voucher's fields, moving its effects along with it
func (s *Service) EditPayment(ctx context.Context, paymentID string, in ledger.PaymentInput, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpEditPayment, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.EditPayment(snap, paymentID, in, actorID)
	})
}

// ReversePayment deletes a voucher and undoes its effects
func (s *Service) ReversePayment(ctx context.Context, paymentID, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpReversePayment, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.ReversePayment(snap, paymentID, actorID)
	})
}

// BulkDeletePayments reverses many vouchers in chunks
func (s *Service) BulkDeletePayments(ctx context.Context, paymentIDs []string, actorID string) (*reconcile.BulkPlan, error) {
	return s.bulk(ctx, reconcile.OpBulkDeletePayments, func(snap *reconcile.Snapshot) (*reconcile.BulkPlan, error) {
		return s.coordinator.BulkDeletePayments(snap, paymentIDs, actorID)
	})
}

// CreateInvoice issues an invoice with the next number of its year
func (s *Service) CreateInvoice(ctx context.Context, in invoice.Input, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpCreateInvoice, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.CreateInvoice(snap, in, actorID)
	})
}

// BulkCreateInvoices issues many invoices in chunks
func (s *Service) BulkCreateInvoices(ctx context.Context, inputs []invoice.Input, actorID string) (*reconcile.BulkPlan, error) {
	return s.bulk(ctx, reconcile.OpBulkCreateInvoices, func(snap *reconcile.Snapshot) (*reconcile.BulkPlan, error) {
		return s.coordinator.BulkCreateInvoices(snap, inputs, actorID)
	})
}

// VoidInvoice freezes an invoice
func (s *Service) VoidInvoice(ctx context.Context, invoiceID, reason, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpVoidInvoice, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.VoidInvoice(snap, invoiceID, reason, actorID)
	})
}

// DeleteInvoice removes an invoice together with its payments
func (s *Service) DeleteInvoice(ctx context.Context, invoiceID, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpDeleteInvoice, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.DeleteInvoice(snap, invoiceID, actorID)
	})
}

// BulkDeleteInvoices removes many invoices in chunks
func (s *Service) BulkDeleteInvoices(ctx context.Context, invoiceIDs []string, actorID string) (*reconcile.BulkPlan, error) {
	return s.bulk(ctx, reconcile.OpBulkDeleteInvoices, func(snap *reconcile.Snapshot) (*reconcile.BulkPlan, error) {
		return s.coordinator.BulkDeleteInvoices(snap, invoiceIDs, actorID)
	})
}

// RecordAuction records the next month's auction of a chit group
func (s *Service) RecordAuction(ctx context.Context, groupID string, req reconcile.AuctionRequest, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpRecordAuction, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.RecordAuction(snap, groupID, req, actorID)
	})
}

// DeleteAuction removes a group's latest auction and everything raised for it
func (s *Service) DeleteAuction(ctx context.Context, groupID, auctionID, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpDeleteAuction, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.DeleteAuction(snap, groupID, auctionID, actorID)
	})
}

// RecordContribution appends a contribution to an investment
func (s *Service) RecordContribution(ctx context.Context, investmentID string, in investment.ContributionInput, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpRecordContribution, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.RecordContribution(snap, investmentID, in, actorID)
	})
}

// CreateCustomer registers a customer
func (s *Service) CreateCustomer(ctx context.Context, in partner.CustomerInput, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpCreateCustomer, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.CreateCustomer(snap, in, actorID)
	})
}

// CreateBankAccount registers a bank account
func (s *Service) CreateBankAccount(ctx context.Context, in reconcile.BankAccountInput, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpCreateBankAccount, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.CreateBankAccount(snap, in, actorID)
	})
}

// ArchiveBankAccount closes a bank account to new payments
func (s *Service) ArchiveBankAccount(ctx context.Context, accountID, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpArchiveBankAccount, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.ArchiveBankAccount(snap, accountID, actorID)
	})
}

// SetOpeningBalance changes the opening balance of an account
func (s *Service) SetOpeningBalance(ctx context.Context, mode string, amount decimal.Decimal, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpSetOpeningBalance, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.SetOpeningBalance(snap, mode, amount, actorID)
	})
}

// CreateChitGroup registers a chit group
func (s *Service) CreateChitGroup(ctx context.Context, in chit.GroupInput, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpCreateChitGroup, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.CreateChitGroup(snap, in, actorID)
	})
}

// CreateInvestment registers an investment
func (s *Service) CreateInvestment(ctx context.Context, in investment.Input, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpCreateInvestment, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.CreateInvestment(snap, in, actorID)
	})
}

// CreateLiability registers money owed to a lender
func (s *Service) CreateLiability(ctx context.Context, in partner.LiabilityInput, actorID string) (*reconcile.Plan, error) {
	return s.mutate(ctx, reconcile.OpCreateLiability, func(snap *reconcile.Snapshot) (*reconcile.Plan, error) {
		return s.coordinator.CreateLiability(snap, in, actorID)
	})
}

// RecordSession writes the audit entry of a LOGIN or LOGOUT. It needs no snapshot.
func (s *Service) RecordSession(ctx context.Context, action audit.Action, actorID string) error {
	plan, err := s.coordinator.RecordSession(action, actorID)
	if err != nil {
		return err
	}
	return s.retry(ctx, reconcile.OpRecordSession, shared.IsTransient, func() error {
		return s.commit(ctx, plan)
	})
}
