package investment

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ContributionType says how money goes into an investment
type ContributionType string

const (
	ContributionMonthly ContributionType = "MONTHLY"
	ContributionLumpSum ContributionType = "LUMP_SUM"
)

// IsValid checks if the contribution type is valid
func (c ContributionType) IsValid() bool {
	return c == ContributionMonthly || c == ContributionLumpSum
}

// Category groups investments for reporting
type Category string

const (
	CategoryGeneral     Category = "GENERAL"
	CategoryChitSavings Category = "CHIT_SAVINGS"
	CategoryDeposit     Category = "DEPOSIT"
	CategoryGold        Category = "GOLD"
	CategoryShares      Category = "SHARES"
)

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryChitSavings, CategoryDeposit, CategoryGold, CategoryShares:
		return true
	}
	return false
}

// ChitConfig describes participation in a chit fund run by someone else
type ChitConfig struct {
	GroupName          string          `json:"group_name"`
	Organizer          string          `json:"organizer,omitempty"`
	TotalValue         decimal.Decimal `json:"total_value"`
	DurationMonths     int             `json:"duration_months"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	StartDate          time.Time       `json:"start_date"`
}

// Value implements driver.Valuer for JSONB storage
func (c ChitConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB storage
func (c *ChitConfig) Scan(value any) error {
	raw, err := jsonBytes(value)
	if err != nil || len(raw) == 0 {
		return err
	}
	return json.Unmarshal(raw, c)
}

// Transaction is one contribution. Dividends are tracked beside, never added to, principal.
type Transaction struct {
	ID         string          `json:"id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Dividend   decimal.Decimal `json:"dividend"`
	Month      int             `json:"month,omitempty"`
	PaymentID  string          `json:"payment_id,omitempty"`
	Date       time.Time       `json:"date"`
	Notes      string          `json:"notes,omitempty"`
}

// Transactions implements GORM Scanner/Valuer for JSONB storage
type Transactions []Transaction

// Value implements driver.Valuer
func (t Transactions) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner
func (t *Transactions) Scan(value any) error {
	raw, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*t = Transactions{}
		return nil
	}
	return json.Unmarshal(raw, t)
}

func jsonBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("failed to scan JSON column: unsupported type")
	}
}

// Investment accumulates contributions into an invested total
type Investment struct {
	shared.BaseAggregateRoot
	Name             string           `json:"name"`
	Category         Category         `json:"category"`
	ContributionType ContributionType `json:"contribution_type"`
	AmountInvested   decimal.Decimal  `json:"amount_invested"`
	CurrentValue     *decimal.Decimal `json:"current_value,omitempty"`
	Transactions     Transactions     `json:"transactions"`
	ChitConfig       *ChitConfig      `json:"chit_config,omitempty"`
	StartDate        time.Time        `json:"start_date"`
	MaturityDate     *time.Time       `json:"maturity_date,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// Input carries the caller-controlled fields of a new investment
type Input struct {
	Name             string
	Category         Category
	ContributionType ContributionType
	AmountInvested   decimal.Decimal
	CurrentValue     *decimal.Decimal
	ChitConfig       *ChitConfig
	StartDate        time.Time
	MaturityDate     *time.Time
	Notes            string
}

// NewInvestment creates an investment with no contributions.
// A chit configuration implies the chit-savings category.
func NewInvestment(in Input) (*Investment, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, shared.NewValidationError("investment name cannot be empty")
	}
	if !in.ContributionType.IsValid() {
		return nil, shared.NewValidationError("invalid contribution type %q", in.ContributionType)
	}
	category := in.Category
	if category == "" {
		category = CategoryGeneral
		if in.ChitConfig != nil {
			category = CategoryChitSavings
		}
	}
	if !category.IsValid() {
		return nil, shared.NewValidationError("invalid investment category %q", in.Category)
	}
	if in.AmountInvested.IsNegative() {
		return nil, shared.NewValidationError("amount invested cannot be negative")
	}
	if in.CurrentValue != nil && in.CurrentValue.IsNegative() {
		return nil, shared.NewValidationError("current value cannot be negative")
	}
	if in.ChitConfig != nil && in.ChitConfig.DurationMonths <= 0 {
		return nil, shared.NewValidationError("chit config duration must be at least one month")
	}
	start := in.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	return &Investment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              in.Name,
		Category:          category,
		ContributionType:  in.ContributionType,
		AmountInvested:    in.AmountInvested,
		CurrentValue:      in.CurrentValue,
		Transactions:      Transactions{},
		ChitConfig:        in.ChitConfig,
		StartDate:         start,
		MaturityDate:      in.MaturityDate,
		Notes:             in.Notes,
	}, nil
}

// IsChitSavings returns true when the investment is a chit fund participation
func (inv *Investment) IsChitSavings() bool {
	return inv.Category == CategoryChitSavings
}

// ComputeInvestmentTotal returns the invested principal.
// Recurring and chit-savings investments sum their contributions; lump sums use
// the current value when known, else the amount invested.
func ComputeInvestmentTotal(inv *Investment, txs []Transaction) decimal.Decimal {
	if inv.ContributionType == ContributionMonthly || inv.IsChitSavings() {
		total := decimal.Zero
		for i := range txs {
			total = total.Add(txs[i].AmountPaid)
		}
		return total
	}
	if inv.CurrentValue != nil {
		return *inv.CurrentValue
	}
	return inv.AmountInvested
}

// TotalInvested is ComputeInvestmentTotal over the investment's own transactions
func (inv *Investment) TotalInvested() decimal.Decimal {
	return ComputeInvestmentTotal(inv, inv.Transactions)
}

// TotalDividends sums dividends received
func (inv *Investment) TotalDividends() decimal.Decimal {
	total := decimal.Zero
	for i := range inv.Transactions {
		total = total.Add(inv.Transactions[i].Dividend)
	}
	return total
}

// ContributionInput is a request to record a contribution
type ContributionInput struct {
	AmountPaid decimal.Decimal
	Dividend   decimal.Decimal
	Month      int
	PaymentID  string
	Date       time.Time
	Notes      string
}

// RecordContribution appends a transaction. A voucher may back at most one
// transaction; a repeated PaymentID is an integrity violation.
func (inv *Investment) RecordContribution(in ContributionInput) (*Transaction, error) {
	if !in.AmountPaid.IsPositive() {
		return nil, shared.NewValidationError("contribution amount must be positive")
	}
	if in.Dividend.IsNegative() {
		return nil, shared.NewValidationError("dividend cannot be negative")
	}
	if in.Month < 0 {
		return nil, shared.NewValidationError("contribution month cannot be negative")
	}
	if in.PaymentID != "" {
		if _, ok := inv.FindByPayment(in.PaymentID); ok {
			return nil, shared.NewIntegrityViolation("payment %s is already recorded on investment %s", in.PaymentID, inv.Name)
		}
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	tx := Transaction{
		ID:         shared.NewID(),
		AmountPaid: in.AmountPaid,
		Dividend:   in.Dividend,
		Month:      in.Month,
		PaymentID:  in.PaymentID,
		Date:       date,
		Notes:      in.Notes,
	}
	inv.Transactions = append(inv.Transactions, tx)
	inv.IncrementVersion()
	inv.AddDomainEvent(NewContributionRecordedEvent(inv, &tx))
	return &inv.Transactions[len(inv.Transactions)-1], nil
}

// FindByPayment returns the transaction backed by a payment
func (inv *Investment) FindByPayment(paymentID string) (*Transaction, bool) {
	for i := range inv.Transactions {
		if inv.Transactions[i].PaymentID == paymentID {
			return &inv.Transactions[i], true
		}
	}
	return nil, false
}

// RemoveContributionByPayment drops the transaction backed by a deleted payment
func (inv *Investment) RemoveContributionByPayment(paymentID string) (*Transaction, bool) {
	for i := range inv.Transactions {
		if inv.Transactions[i].PaymentID == paymentID {
			removed := inv.Transactions[i]
			inv.Transactions = append(inv.Transactions[:i:i], inv.Transactions[i+1:]...)
			inv.IncrementVersion()
			return &removed, true
		}
	}
	return nil, false
}

// ReviseContributionAmount follows an edit of the backing payment
func (inv *Investment) ReviseContributionAmount(paymentID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("contribution amount must be positive")
	}
	tx, ok := inv.FindByPayment(paymentID)
	if !ok {
		return shared.NewDependencyNotFound("investment transaction for payment", paymentID)
	}
	tx.AmountPaid = amount
	inv.IncrementVersion()
	return nil
}

// Clone returns a deep copy that can be mutated independently
func (inv *Investment) Clone() *Investment {
	c := *inv
	c.Transactions = append(Transactions{}, inv.Transactions...)
	if inv.CurrentValue != nil {
		v := *inv.CurrentValue
		c.CurrentValue = &v
	}
	if inv.ChitConfig != nil {
		cfg := *inv.ChitConfig
		c.ChitConfig = &cfg
	}
	c.ClearDomainEvents()
	return &c
}
