package partner

import (
	"context"
	"strings"
	"time"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LiabilityStatus represents the status of a loan taken by the business
type LiabilityStatus string

const (
	LiabilityStatusActive LiabilityStatus = "ACTIVE"
	LiabilityStatusClosed LiabilityStatus = "CLOSED"
)

// Liability is a loan owed by the business
type Liability struct {
	shared.BaseAggregateRoot
	LenderID         string          `json:"lender_id,omitempty"`
	Name             string          `json:"name"`
	Principal        decimal.Decimal `json:"principal"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	Status           LiabilityStatus `json:"status"`
	StartDate        time.Time       `json:"start_date"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
}

// LiabilityInput carries the caller-controlled fields of a liability
type LiabilityInput struct {
	LenderID     string
	Name         string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	StartDate    time.Time
}

// NewLiability creates an active liability with the full principal outstanding
func NewLiability(in LiabilityInput) (*Liability, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, shared.NewValidationError("liability name cannot be empty")
	}
	if !in.Principal.IsPositive() {
		return nil, shared.NewValidationError("liability principal must be positive")
	}
	if in.InterestRate.IsNegative() {
		return nil, shared.NewValidationError("interest rate cannot be negative")
	}
	start := in.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	return &Liability{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LenderID:          in.LenderID,
		Name:              in.Name,
		Principal:         in.Principal,
		RemainingBalance:  in.Principal,
		InterestRate:      in.InterestRate,
		Status:            LiabilityStatusActive,
		StartDate:         start,
	}, nil
}

// IsActive returns true while a balance is owed
func (l *Liability) IsActive() bool {
	return l.Status == LiabilityStatusActive
}

// Repay reduces the remaining balance; the liability closes at zero
func (l *Liability) Repay(amount decimal.Decimal) error {
	if !l.IsActive() {
		return shared.NewInvalidState("liability %s is closed", l.Name)
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("repayment amount must be positive")
	}
	if amount.GreaterThan(l.RemainingBalance) {
		return shared.NewValidationError("repayment %s exceeds remaining balance %s of liability %s",
			amount.StringFixed(2), l.RemainingBalance.StringFixed(2), l.Name)
	}
	l.RemainingBalance = l.RemainingBalance.Sub(amount)
	if l.RemainingBalance.IsZero() {
		now := time.Now()
		l.Status = LiabilityStatusClosed
		l.ClosedAt = &now
	}
	l.IncrementVersion()
	return nil
}

// UndoRepayment restores a repayment whose voucher was reversed, reopening the liability
func (l *Liability) UndoRepayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("repayment amount must be positive")
	}
	restored := l.RemainingBalance.Add(amount)
	if restored.GreaterThan(l.Principal) {
		return shared.NewIntegrityViolation("undoing repayment would raise liability %s above its principal", l.Name)
	}
	l.RemainingBalance = restored
	l.Status = LiabilityStatusActive
	l.ClosedAt = nil
	l.IncrementVersion()
	return nil
}

// Clone returns a copy that can be mutated independently
func (l *Liability) Clone() *Liability {
	c := *l
	if l.ClosedAt != nil {
		at := *l.ClosedAt
		c.ClosedAt = &at
	}
	c.ClearDomainEvents()
	return &c
}

// LiabilityRepository reads liabilities
type LiabilityRepository interface {
	FindByID(ctx context.Context, id string) (*Liability, error)
	FindAll(ctx context.Context) ([]Liability, error)
}
