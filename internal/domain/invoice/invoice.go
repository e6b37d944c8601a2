package invoice

import (
	"strings"
	"time"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Type is the business line an invoice belongs to
type Type string

const (
	TypeRoyalty     Type = "ROYALTY"
	TypeInterest    Type = "INTEREST"
	TypeChit        Type = "CHIT"
	TypeInterestOut Type = "INTEREST_OUT"
)

// IsValid checks if the type is a valid invoice Type
func (t Type) IsValid() bool {
	switch t {
	case TypeRoyalty, TypeInterest, TypeChit, TypeInterestOut:
		return true
	}
	return false
}

// Direction says who owes whom: IN is owed to the business, OUT is owed by it
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// DefaultDirection returns the natural direction of an invoice type
func DefaultDirection(t Type) Direction {
	if t == TypeInterestOut {
		return DirectionOut
	}
	return DirectionIn
}

// Status is derived from balance vs amount and is never set directly
type Status string

const (
	StatusUnpaid  Status = "UNPAID"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	return s == StatusUnpaid || s == StatusPartial || s == StatusPaid
}

// ComputeInvoiceStatus derives status from the remaining balance:
// PAID iff balance <= 0, PARTIAL iff 0 < balance < amount, else UNPAID.
func ComputeInvoiceStatus(amount, balance decimal.Decimal) Status {
	switch {
	case !balance.IsPositive():
		return StatusPaid
	case balance.LessThan(amount):
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// Invoice is an amount owed to or by the business.
// Balance is a cached projection of Amount minus the applied payments.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber    string          `json:"invoice_number"`
	CustomerID       string          `json:"customer_id"`
	Type             Type            `json:"type"`
	Direction        Direction       `json:"direction"`
	Amount           decimal.Decimal `json:"amount"`
	Balance          decimal.Decimal `json:"balance"`
	Status           Status          `json:"status"`
	IsVoid           bool            `json:"is_void"`
	VoidReason       string          `json:"void_reason,omitempty"`
	VoidedAt         *time.Time      `json:"voided_at,omitempty"`
	RelatedAuctionID string          `json:"related_auction_id,omitempty"`
	IssueDate        time.Time       `json:"issue_date"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// Input carries the caller-controlled fields of a new invoice
type Input struct {
	CustomerID       string
	Type             Type
	Direction        Direction
	Amount           decimal.Decimal
	RelatedAuctionID string
	IssueDate        time.Time
	DueDate          *time.Time
	Notes            string
}

// Validate checks the input without building an invoice
func (in Input) Validate() error {
	if strings.TrimSpace(in.CustomerID) == "" {
		return shared.NewValidationError("invoice customer is required")
	}
	if !in.Type.IsValid() {
		return shared.NewValidationError("invalid invoice type %q", in.Type)
	}
	if in.Direction != "" && !in.Direction.IsValid() {
		return shared.NewValidationError("invalid invoice direction %q", in.Direction)
	}
	if in.Type == TypeInterestOut && in.Direction == DirectionIn {
		return shared.NewValidationError("INTEREST_OUT invoices are always OUT")
	}
	if !in.Amount.IsPositive() {
		return shared.NewValidationError("invoice amount must be positive")
	}
	if in.DueDate != nil && !in.IssueDate.IsZero() && in.DueDate.Before(in.IssueDate) {
		return shared.NewValidationError("due date cannot be before issue date")
	}
	return nil
}

// Year returns the numbering year of the input
func (in Input) Year() int {
	if in.IssueDate.IsZero() {
		return time.Now().Year()
	}
	return in.IssueDate.Year()
}

// NewInvoice creates an unpaid invoice. The number is assigned separately
// because it depends on the year's sequence.
func NewInvoice(in Input, number string) (*Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, _, ok := ParseNumber(number); !ok {
		return nil, shared.NewValidationError("invalid invoice number %q", number)
	}
	direction := in.Direction
	if direction == "" {
		direction = DefaultDirection(in.Type)
	}
	issue := in.IssueDate
	if issue.IsZero() {
		issue = time.Now()
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     number,
		CustomerID:        in.CustomerID,
		Type:              in.Type,
		Direction:         direction,
		Amount:            in.Amount,
		Balance:           in.Amount,
		Status:            StatusUnpaid,
		RelatedAuctionID:  in.RelatedAuctionID,
		IssueDate:         issue,
		DueDate:           in.DueDate,
		Notes:             in.Notes,
	}
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// ApplyPayment settles part of the balance. A payment larger than the
// outstanding balance is rejected, so every reversal restores exactly what
// its payment removed.
func (i *Invoice) ApplyPayment(paymentID string, amount decimal.Decimal) error {
	if i.IsVoid {
		return shared.NewInvalidState("invoice %s is void", i.InvoiceNumber)
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("payment amount must be positive")
	}
	if amount.GreaterThan(i.Balance) {
		return shared.NewValidationError("payment %s exceeds invoice %s outstanding balance %s",
			amount.StringFixed(2), i.InvoiceNumber, i.Balance.StringFixed(2))
	}
	previous := i.Balance
	i.Balance = i.Balance.Sub(amount)
	i.recompute(paymentID, previous)
	return nil
}

// ReversePayment restores balance removed by a payment. Restoring above the
// original amount means the stored balance had drifted; it is reported, not clamped.
func (i *Invoice) ReversePayment(paymentID string, amount decimal.Decimal) error {
	if i.IsVoid {
		return shared.NewInvalidState("invoice %s is void", i.InvoiceNumber)
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("payment amount must be positive")
	}
	restored := i.Balance.Add(amount)
	if restored.GreaterThan(i.Amount) {
		return shared.NewIntegrityViolation(
			"reversing payment %s would raise invoice %s balance to %s above its amount %s",
			paymentID, i.InvoiceNumber, restored.StringFixed(2), i.Amount.StringFixed(2))
	}
	previous := i.Balance
	i.Balance = restored
	i.recompute(paymentID, previous)
	return nil
}

func (i *Invoice) recompute(paymentID string, previous decimal.Decimal) {
	i.Status = ComputeInvoiceStatus(i.Amount, i.Balance)
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceBalanceChangedEvent(i, paymentID, previous))
}

// Void marks the invoice as void. Void is absorbing.
func (i *Invoice) Void(reason string) error {
	if i.IsVoid {
		return shared.NewInvalidState("invoice %s is already void", i.InvoiceNumber)
	}
	now := time.Now()
	i.IsVoid = true
	i.VoidReason = reason
	i.VoidedAt = &now
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceVoidedEvent(i))
	return nil
}

// Outstanding is the balance that counts towards statistics
func (i *Invoice) Outstanding() decimal.Decimal {
	if i.IsVoid {
		return decimal.Zero
	}
	return i.Balance
}

// CheckInvariants verifies 0 <= balance <= amount and the derived status
func (i *Invoice) CheckInvariants() error {
	if i.IsVoid {
		return nil
	}
	if i.Balance.IsNegative() || i.Balance.GreaterThan(i.Amount) {
		return shared.NewIntegrityViolation("invoice %s balance %s outside [0, %s]",
			i.InvoiceNumber, i.Balance.StringFixed(2), i.Amount.StringFixed(2))
	}
	if want := ComputeInvoiceStatus(i.Amount, i.Balance); want != i.Status {
		return shared.NewIntegrityViolation("invoice %s status %s, expected %s", i.InvoiceNumber, i.Status, want)
	}
	return nil
}

// Clone returns a copy that can be mutated independently
func (i *Invoice) Clone() *Invoice {
	c := *i
	if i.DueDate != nil {
		due := *i.DueDate
		c.DueDate = &due
	}
	if i.VoidedAt != nil {
		at := *i.VoidedAt
		c.VoidedAt = &at
	}
	c.ClearDomainEvents()
	return &c
}
