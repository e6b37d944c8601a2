package ledger

import (
	"time"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentType is the direction of money relative to the payment's account
type PaymentType string

const (
	PaymentTypeIn  PaymentType = "IN"
	PaymentTypeOut PaymentType = "OUT"
)

// IsValid checks if the type is a valid PaymentType
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeIn || t == PaymentTypeOut
}

// VoucherType is the accounting voucher kind of a payment
type VoucherType string

const (
	VoucherReceipt VoucherType = "RECEIPT"
	VoucherPayment VoucherType = "PAYMENT"
	VoucherContra  VoucherType = "CONTRA"
	VoucherJournal VoucherType = "JOURNAL"
)

// IsValid checks if the voucher type is valid
func (v VoucherType) IsValid() bool {
	switch v {
	case VoucherReceipt, VoucherPayment, VoucherContra, VoucherJournal:
		return true
	}
	return false
}

// Payment is a voucher: one movement of money on an account.
// A CONTRA voucher also credits TargetMode.
type Payment struct {
	shared.BaseAggregateRoot
	Type             PaymentType     `json:"type"`
	VoucherType      VoucherType     `json:"voucher_type"`
	Mode             AccountMode     `json:"mode"`
	TargetMode       AccountMode     `json:"target_mode,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	SourceID         string          `json:"source_id,omitempty"`
	Category         Category        `json:"category"`
	InvoiceID        string          `json:"invoice_id,omitempty"`
	RelatedAuctionID string          `json:"related_auction_id,omitempty"`
	Date             time.Time       `json:"date"`
	Notes            string          `json:"notes,omitempty"`
}

// PaymentInput carries the caller-controlled fields of a payment
type PaymentInput struct {
	Type             PaymentType
	VoucherType      VoucherType
	Mode             string
	TargetMode       string
	Amount           decimal.Decimal
	SourceID         string
	Category         string
	InvoiceID        string
	RelatedAuctionID string
	Date             time.Time
	Notes            string
}

// NewPayment validates input against the account registry and builds a payment
func NewPayment(in PaymentInput, accounts *AccountRegistry) (*Payment, error) {
	p := &Payment{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := p.assign(in, accounts); err != nil {
		return nil, err
	}
	return p, nil
}

// Revise replaces the caller-controlled fields, keeping identity and version history
func (p *Payment) Revise(in PaymentInput, accounts *AccountRegistry) error {
	if err := p.assign(in, accounts); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

func (p *Payment) assign(in PaymentInput, accounts *AccountRegistry) error {
	if !in.Type.IsValid() {
		return shared.NewValidationError("invalid payment type %q", in.Type)
	}
	if in.VoucherType == "" {
		in.VoucherType = defaultVoucherType(in.Type)
	}
	if !in.VoucherType.IsValid() {
		return shared.NewValidationError("invalid voucher type %q", in.VoucherType)
	}
	if !in.Amount.IsPositive() {
		return shared.NewValidationError("payment amount must be positive")
	}
	category, err := ParseCategory(in.Category)
	if err != nil {
		return err
	}
	mode, err := accounts.Resolve(in.Mode)
	if err != nil {
		return err
	}

	var target AccountMode
	if in.VoucherType == VoucherContra {
		if target, err = accounts.Resolve(in.TargetMode); err != nil {
			return err
		}
		if target == mode {
			return shared.NewValidationError("contra voucher must move money between two different accounts")
		}
		if in.InvoiceID != "" {
			return shared.NewValidationError("contra voucher cannot settle an invoice")
		}
	} else if in.TargetMode != "" {
		return shared.NewValidationError("target mode is only allowed on contra vouchers")
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	p.Type = in.Type
	p.VoucherType = in.VoucherType
	p.Mode = mode
	p.TargetMode = target
	p.Amount = in.Amount
	p.SourceID = in.SourceID
	p.Category = category
	p.InvoiceID = in.InvoiceID
	p.RelatedAuctionID = in.RelatedAuctionID
	p.Date = date
	p.Notes = in.Notes
	return nil
}

func defaultVoucherType(t PaymentType) VoucherType {
	if t == PaymentTypeIn {
		return VoucherReceipt
	}
	return VoucherPayment
}

// IsContra returns true for internal transfers
func (p *Payment) IsContra() bool {
	return p.VoucherType == VoucherContra
}

// SettlesInvoice returns true if the payment moves the linked invoice's balance.
// Only incoming money settles an invoice; an OUT payment keeps the link as a reference.
func (p *Payment) SettlesInvoice() bool {
	return p.InvoiceID != "" && p.Type == PaymentTypeIn
}

// Touches returns true if the payment affects the given account
func (p *Payment) Touches(mode AccountMode) bool {
	return p.Mode == mode || (p.IsContra() && p.TargetMode == mode)
}

// Input returns the caller-controlled fields, used to re-validate an edit
func (p *Payment) Input() PaymentInput {
	return PaymentInput{
		Type:             p.Type,
		VoucherType:      p.VoucherType,
		Mode:             string(p.Mode),
		TargetMode:       string(p.TargetMode),
		Amount:           p.Amount,
		SourceID:         p.SourceID,
		Category:         string(p.Category),
		InvoiceID:        p.InvoiceID,
		RelatedAuctionID: p.RelatedAuctionID,
		Date:             p.Date,
		Notes:            p.Notes,
	}
}

// Clone returns a copy that can be mutated independently
func (p *Payment) Clone() *Payment {
	c := *p
	c.ClearDomainEvents()
	return &c
}
