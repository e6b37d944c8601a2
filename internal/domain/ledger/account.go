package ledger

import (
	"sort"
	"strings"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountMode identifies a money account: the literal CASH or a bank account ID
type AccountMode string

// CashMode is the implicit cash account
const CashMode AccountMode = "CASH"

// String returns the string representation of AccountMode
func (m AccountMode) String() string {
	return string(m)
}

// IsCash returns true for the implicit cash account
func (m AccountMode) IsCash() bool {
	return m == CashMode
}

// AccountStatus represents the lifecycle of a bank account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusArchived AccountStatus = "ARCHIVED"
)

// IsValid checks if the status is a valid AccountStatus
func (s AccountStatus) IsValid() bool {
	return s == AccountStatusActive || s == AccountStatusArchived
}

// BankAccount is a bank account owned by the business.
// Archived accounts keep their history but take no new payments.
type BankAccount struct {
	shared.BaseAggregateRoot
	Name           string          `json:"name"`
	BankName       string          `json:"bank_name"`
	AccountNumber  string          `json:"account_number"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Status         AccountStatus   `json:"status"`
}

// NewBankAccount creates a new active bank account
func NewBankAccount(name, bankName, accountNumber string, openingBalance decimal.Decimal) (*BankAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("bank account name cannot be empty")
	}
	if AccountMode(strings.ToUpper(name)) == CashMode {
		return nil, shared.NewValidationError("bank account name %q is reserved", name)
	}
	return &BankAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		BankName:          bankName,
		AccountNumber:     accountNumber,
		OpeningBalance:    openingBalance,
		Status:            AccountStatusActive,
	}, nil
}

// Mode returns the account mode used by payments against this account
func (a *BankAccount) Mode() AccountMode {
	return AccountMode(a.ID)
}

// IsArchived returns true if the account is archived
func (a *BankAccount) IsArchived() bool {
	return a.Status == AccountStatusArchived
}

// Archive hides the account from dashboards and blocks new payments
func (a *BankAccount) Archive() error {
	if a.IsArchived() {
		return shared.NewInvalidState("bank account %s is already archived", a.ID)
	}
	a.Status = AccountStatusArchived
	a.IncrementVersion()
	a.AddDomainEvent(NewBankAccountArchivedEvent(a))
	return nil
}

// SetOpeningBalance changes the balance the account started with
func (a *BankAccount) SetOpeningBalance(amount decimal.Decimal) error {
	if a.IsArchived() {
		return shared.NewInvalidState("bank account %s is archived", a.ID)
	}
	a.OpeningBalance = amount
	a.IncrementVersion()
	return nil
}

// OpeningBalance is the stored opening balance of the implicit CASH account
type OpeningBalance struct {
	Mode   AccountMode     `json:"mode"`
	Amount decimal.Decimal `json:"amount"`
}

// OpeningBalances maps every account to its opening balance
type OpeningBalances map[AccountMode]decimal.Decimal

// NewOpeningBalances builds the opening balance map from the cash opening
// balance and the bank accounts
func NewOpeningBalances(cash decimal.Decimal, accounts []BankAccount) OpeningBalances {
	ob := OpeningBalances{CashMode: cash}
	for i := range accounts {
		ob[accounts[i].Mode()] = accounts[i].OpeningBalance
	}
	return ob
}

// For returns the opening balance of an account, zero when unknown
func (o OpeningBalances) For(mode AccountMode) decimal.Decimal {
	if v, ok := o[mode]; ok {
		return v
	}
	return decimal.Zero
}

// AccountRegistry is the closed set of known accounts.
// Payments may only reference modes present in the registry.
type AccountRegistry struct {
	status map[AccountMode]AccountStatus
}

// NewAccountRegistry builds a registry with CASH plus the given bank accounts
func NewAccountRegistry(accounts []BankAccount) *AccountRegistry {
	r := &AccountRegistry{status: map[AccountMode]AccountStatus{CashMode: AccountStatusActive}}
	for i := range accounts {
		r.status[accounts[i].Mode()] = accounts[i].Status
	}
	return r
}

// Resolve validates a free-form mode string against the registry
func (r *AccountRegistry) Resolve(mode string) (AccountMode, error) {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return "", shared.NewValidationError("account mode is required")
	}
	if strings.EqualFold(mode, string(CashMode)) {
		return CashMode, nil
	}
	m := AccountMode(mode)
	if _, ok := r.status[m]; !ok {
		return "", shared.NewDependencyNotFound("account", mode)
	}
	return m, nil
}

// Knows returns true if the mode is registered
func (r *AccountRegistry) Knows(mode AccountMode) bool {
	_, ok := r.status[mode]
	return ok
}

// IsArchived returns true if the mode refers to an archived bank account
func (r *AccountRegistry) IsArchived(mode AccountMode) bool {
	return r.status[mode] == AccountStatusArchived
}

// Modes returns all registered modes, CASH first then sorted bank IDs
func (r *AccountRegistry) Modes() []AccountMode {
	return r.collect(func(AccountStatus) bool { return true })
}

// ActiveModes returns the modes shown on dashboards
func (r *AccountRegistry) ActiveModes() []AccountMode {
	return r.collect(func(s AccountStatus) bool { return s == AccountStatusActive })
}

func (r *AccountRegistry) collect(keep func(AccountStatus) bool) []AccountMode {
	modes := make([]AccountMode, 0, len(r.status))
	for m, s := range r.status {
		if m != CashMode && keep(s) {
			modes = append(modes, m)
		}
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return append([]AccountMode{CashMode}, modes...)
}
