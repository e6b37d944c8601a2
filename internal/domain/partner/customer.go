package partner

import (
	"context"
	"strings"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
)

// IsValid checks if the status is valid
func (s CustomerStatus) IsValid() bool {
	return s == CustomerStatusActive || s == CustomerStatusInactive
}

// Portfolio flags which business lines a customer takes part in
type Portfolio struct {
	IsRoyalty  bool `json:"is_royalty"`
	IsInterest bool `json:"is_interest"`
	IsChit     bool `json:"is_chit"`
	IsGeneral  bool `json:"is_general"`
	IsLender   bool `json:"is_lender"`
}

// Customer is a counterparty of the business. InterestPrincipal is money
// lent to them; CreditPrincipal is money they lent to the business.
type Customer struct {
	shared.BaseAggregateRoot
	Portfolio
	Name              string          `json:"name"`
	Phone             string          `json:"phone,omitempty"`
	Address           string          `json:"address,omitempty"`
	RoyaltyAmount     decimal.Decimal `json:"royalty_amount"`
	InterestPrincipal decimal.Decimal `json:"interest_principal"`
	CreditPrincipal   decimal.Decimal `json:"credit_principal"`
	OpeningBalance    decimal.Decimal `json:"opening_balance"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	Status            CustomerStatus  `json:"status"`
}

// CustomerInput carries the caller-controlled fields of a customer
type CustomerInput struct {
	Portfolio
	Name              string
	Phone             string
	Address           string
	RoyaltyAmount     decimal.Decimal
	InterestPrincipal decimal.Decimal
	CreditPrincipal   decimal.Decimal
	OpeningBalance    decimal.Decimal
	InterestRate      decimal.Decimal
}

// NewCustomer creates an active customer
func NewCustomer(in CustomerInput) (*Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, shared.NewValidationError("customer name cannot be empty")
	}
	for label, v := range map[string]decimal.Decimal{
		"royalty amount":     in.RoyaltyAmount,
		"interest principal": in.InterestPrincipal,
		"credit principal":   in.CreditPrincipal,
		"interest rate":      in.InterestRate,
	} {
		if v.IsNegative() {
			return nil, shared.NewValidationError("%s cannot be negative", label)
		}
	}
	if in.InterestRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError("interest rate cannot exceed 100%%")
	}
	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Portfolio:         in.Portfolio,
		Name:              strings.TrimSpace(in.Name),
		Phone:             in.Phone,
		Address:           in.Address,
		RoyaltyAmount:     in.RoyaltyAmount,
		InterestPrincipal: in.InterestPrincipal,
		CreditPrincipal:   in.CreditPrincipal,
		OpeningBalance:    in.OpeningBalance,
		InterestRate:      in.InterestRate,
		Status:            CustomerStatusActive,
	}, nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// Repository reads customers
type Repository interface {
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindAll(ctx context.Context) ([]Customer, error)
}
