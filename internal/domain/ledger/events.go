package ledger

import (
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypePayment is the aggregate type for payment events
const AggregateTypePayment = "Payment"

const (
	EventTypePaymentRecorded = "PaymentRecorded"
	EventTypePaymentRevised  = "PaymentRevised"
	EventTypePaymentReversed = "PaymentReversed"
	EventTypeAccountArchived = "BankAccountArchived"
)

// PaymentRecordedEvent is raised when a new payment is written
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID   string          `json:"payment_id"`
	Type        PaymentType     `json:"type"`
	VoucherType VoucherType     `json:"voucher_type"`
	Mode        AccountMode     `json:"mode"`
	TargetMode  AccountMode     `json:"target_mode,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	InvoiceID   string          `json:"invoice_id,omitempty"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		Type:            p.Type,
		VoucherType:     p.VoucherType,
		Mode:            p.Mode,
		TargetMode:      p.TargetMode,
		Amount:          p.Amount,
		InvoiceID:       p.InvoiceID,
	}
}

// PaymentRevisedEvent is raised when a payment is edited
type PaymentRevisedEvent struct {
	shared.BaseDomainEvent
	PaymentID      string          `json:"payment_id"`
	PreviousAmount decimal.Decimal `json:"previous_amount"`
	Amount         decimal.Decimal `json:"amount"`
}

// NewPaymentRevisedEvent creates a new PaymentRevisedEvent
func NewPaymentRevisedEvent(before, after *Payment) *PaymentRevisedEvent {
	return &PaymentRevisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRevised, AggregateTypePayment, after.ID),
		PaymentID:       after.ID,
		PreviousAmount:  before.Amount,
		Amount:          after.Amount,
	}
}

// PaymentReversedEvent is raised when a payment is deleted and its effects undone
type PaymentReversedEvent struct {
	shared.BaseDomainEvent
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	InvoiceID string          `json:"invoice_id,omitempty"`
	Cascade   bool            `json:"cascade"`
}

// NewPaymentReversedEvent creates a new PaymentReversedEvent
func NewPaymentReversedEvent(p *Payment, cascade bool) *PaymentReversedEvent {
	return &PaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReversed, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		Amount:          p.Amount,
		InvoiceID:       p.InvoiceID,
		Cascade:         cascade,
	}
}

// BankAccountArchivedEvent is raised when a bank account is archived
type BankAccountArchivedEvent struct {
	shared.BaseDomainEvent
	AccountID string `json:"account_id"`
}

// NewBankAccountArchivedEvent creates a new BankAccountArchivedEvent
func NewBankAccountArchivedEvent(a *BankAccount) *BankAccountArchivedEvent {
	return &BankAccountArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountArchived, "BankAccount", a.ID),
		AccountID:       a.ID,
	}
}
