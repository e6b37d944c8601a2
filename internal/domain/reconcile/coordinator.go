package reconcile

import (
	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/shared"
)

// DefaultChunkSize is the number of items committed together by bulk operations
const DefaultChunkSize = 500

// Operation names carried on plans and audit trails
const (
	OpApplyPayment       = "ApplyPayment"
	OpEditPayment        = "EditPayment"
	OpReversePayment     = "ReversePayment"
	OpBulkDeletePayments = "BulkDeletePayments"
	OpCreateInvoice      = "CreateInvoice"
	OpBulkCreateInvoices = "BulkCreateInvoices"
	OpVoidInvoice        = "VoidInvoice"
	OpDeleteInvoice      = "DeleteInvoice"
	OpBulkDeleteInvoices = "BulkDeleteInvoices"
	OpRecordAuction      = "RecordAuction"
	OpDeleteAuction      = "DeleteAuction"
	OpRecordContribution = "RecordContribution"
	OpCreateCustomer     = "CreateCustomer"
	OpCreateBankAccount  = "CreateBankAccount"
	OpArchiveBankAccount = "ArchiveBankAccount"
	OpSetOpeningBalance  = "SetOpeningBalance"
	OpCreateChitGroup    = "CreateChitGroup"
	OpCreateInvestment   = "CreateInvestment"
	OpCreateLiability    = "CreateLiability"
	OpRecordSession      = "RecordSession"
)

// Coordinator turns a snapshot plus one mutation request into the ordered
// writes that apply it. It never touches storage; every check runs before
// the first write is emitted, so a rejected request yields no plan at all.
type Coordinator struct {
	chunkSize int
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithChunkSize sets the bulk chunk size. Values below 1 keep the default.
func WithChunkSize(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// NewCoordinator creates a Coordinator
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChunkSize returns the configured bulk chunk size
func (c *Coordinator) ChunkSize() int {
	return c.chunkSize
}

func requireActor(actorID string) error {
	if actorID == "" {
		return shared.NewValidationError("actor is required")
	}
	return nil
}

// RecordSession produces the audit-only plan for a LOGIN or LOGOUT
func (c *Coordinator) RecordSession(action audit.Action, actorID string) (*Plan, error) {
	if action != audit.ActionLogin && action != audit.ActionLogout {
		return nil, shared.NewValidationError("session action must be LOGIN or LOGOUT, got %q", action)
	}
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(&Snapshot{}, OpRecordSession, actorID)
	if err := b.audit(action, AuditEntitySession, actorID, nil, nil); err != nil {
		return nil, err
	}
	return b.plan, nil
}
