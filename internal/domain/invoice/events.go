package invoice

import (
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice is the aggregate type for invoice events
const AggregateTypeInvoice = "Invoice"

const (
	EventTypeInvoiceCreated        = "InvoiceCreated"
	EventTypeInvoiceBalanceChanged = "InvoiceBalanceChanged"
	EventTypeInvoiceVoided         = "InvoiceVoided"
	EventTypeInvoiceDeleted        = "InvoiceDeleted"
)

// InvoiceCreatedEvent is raised when an invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID        string          `json:"invoice_id"`
	InvoiceNumber    string          `json:"invoice_number"`
	CustomerID       string          `json:"customer_id"`
	Type             Type            `json:"type"`
	Direction        Direction       `json:"direction"`
	Amount           decimal.Decimal `json:"amount"`
	RelatedAuctionID string          `json:"related_auction_id,omitempty"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(i *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, i.ID),
		InvoiceID:        i.ID,
		InvoiceNumber:    i.InvoiceNumber,
		CustomerID:       i.CustomerID,
		Type:             i.Type,
		Direction:        i.Direction,
		Amount:           i.Amount,
		RelatedAuctionID: i.RelatedAuctionID,
	}
}

// InvoiceBalanceChangedEvent is raised when a payment is applied or reversed
type InvoiceBalanceChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID       string          `json:"invoice_id"`
	PaymentID       string          `json:"payment_id"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	Balance         decimal.Decimal `json:"balance"`
	Status          Status          `json:"status"`
}

// NewInvoiceBalanceChangedEvent creates a new InvoiceBalanceChangedEvent
func NewInvoiceBalanceChangedEvent(i *Invoice, paymentID string, previous decimal.Decimal) *InvoiceBalanceChangedEvent {
	return &InvoiceBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceBalanceChanged, AggregateTypeInvoice, i.ID),
		InvoiceID:       i.ID,
		PaymentID:       paymentID,
		PreviousBalance: previous,
		Balance:         i.Balance,
		Status:          i.Status,
	}
}

// InvoiceVoidedEvent is raised when an invoice is voided
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Balance       decimal.Decimal `json:"balance"`
	Reason        string          `json:"reason,omitempty"`
}

// NewInvoiceVoidedEvent creates a new InvoiceVoidedEvent
func NewInvoiceVoidedEvent(i *Invoice) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, AggregateTypeInvoice, i.ID),
		InvoiceID:       i.ID,
		InvoiceNumber:   i.InvoiceNumber,
		Balance:         i.Balance,
		Reason:          i.VoidReason,
	}
}

// InvoiceDeletedEvent is raised when an invoice is removed
type InvoiceDeletedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	Cascade       bool   `json:"cascade"`
}

// NewInvoiceDeletedEvent creates a new InvoiceDeletedEvent
func NewInvoiceDeletedEvent(i *Invoice, cascade bool) *InvoiceDeletedEvent {
	return &InvoiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceDeleted, AggregateTypeInvoice, i.ID),
		InvoiceID:       i.ID,
		InvoiceNumber:   i.InvoiceNumber,
		Cascade:         cascade,
	}
}
