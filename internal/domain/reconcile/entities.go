package reconcile

import (
	"strings"

	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BankAccountInput carries the fields of a new bank account
type BankAccountInput struct {
	Name           string
	BankName       string
	AccountNumber  string
	OpeningBalance decimal.Decimal
}

// CreateCustomer registers a customer
func (c *Coordinator) CreateCustomer(s *Snapshot, in partner.CustomerInput, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	cust, err := partner.NewCustomer(in)
	if err != nil {
		return nil, err
	}
	return created(s, OpCreateCustomer, actorID, EntityCustomer, cust.ID, cust)
}

// CreateBankAccount opens a bank account. Names are unique, ignoring case.
func (c *Coordinator) CreateBankAccount(s *Snapshot, in BankAccountInput, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	acc, err := ledger.NewBankAccount(in.Name, in.BankName, in.AccountNumber, in.OpeningBalance)
	if err != nil {
		return nil, err
	}
	for i := range s.BankAccounts {
		if strings.EqualFold(s.BankAccounts[i].Name, acc.Name) {
			return nil, shared.NewValidationError("bank account %q already exists", acc.Name)
		}
	}
	return created(s, OpCreateBankAccount, actorID, EntityBankAccount, acc.ID, acc)
}

// ArchiveBankAccount hides an account from dashboards. Its history still
// counts towards balances.
func (c *Coordinator) ArchiveBankAccount(s *Snapshot, accountID, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpArchiveBankAccount, actorID)
	acc, err := b.bankAccount(accountID)
	if err != nil {
		return nil, err
	}
	before := *acc
	if err := acc.Archive(); err != nil {
		return nil, err
	}
	snapshot := *acc
	b.update(EntityBankAccount, acc.ID, before.Version, &snapshot)
	b.collect(acc)
	if err := b.audit(audit.ActionEdit, string(EntityBankAccount), acc.ID, &before, acc); err != nil {
		return nil, err
	}
	return b.plan, nil
}

// SetOpeningBalance sets where an account starts. CASH has no row of its own
// and is stored as an upsert.
func (c *Coordinator) SetOpeningBalance(s *Snapshot, mode string, amount decimal.Decimal, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpSetOpeningBalance, actorID)
	resolved, err := b.accounts.Resolve(mode)
	if err != nil {
		return nil, err
	}
	if resolved.IsCash() {
		before := ledger.OpeningBalance{Mode: ledger.CashMode, Amount: s.CashOpeningBalance}
		after := ledger.OpeningBalance{Mode: ledger.CashMode, Amount: amount}
		b.upsert(EntityOpeningBalance, string(ledger.CashMode), &after)
		if err := b.audit(audit.ActionEdit, string(EntityOpeningBalance), string(ledger.CashMode), before, after); err != nil {
			return nil, err
		}
		return b.plan, nil
	}

	acc, err := b.bankAccount(string(resolved))
	if err != nil {
		return nil, err
	}
	before := *acc
	if err := acc.SetOpeningBalance(amount); err != nil {
		return nil, err
	}
	snapshot := *acc
	b.update(EntityBankAccount, acc.ID, before.Version, &snapshot)
	if err := b.audit(audit.ActionEdit, string(EntityOpeningBalance), acc.ID,
		ledger.OpeningBalance{Mode: resolved, Amount: before.OpeningBalance},
		ledger.OpeningBalance{Mode: resolved, Amount: amount}); err != nil {
		return nil, err
	}
	return b.plan, nil
}

// CreateChitGroup starts a group at month 0. Listed members must be customers.
func (c *Coordinator) CreateChitGroup(s *Snapshot, in chit.GroupInput, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	g, err := chit.NewChitGroup(in)
	if err != nil {
		return nil, err
	}
	idx := newIndex(s)
	for _, m := range g.Members {
		if _, ok := idx.customers[m]; !ok {
			return nil, shared.NewDependencyNotFound("customer", m)
		}
	}
	return created(s, OpCreateChitGroup, actorID, EntityChitGroup, g.ID, g)
}

// CreateInvestment registers an investment with no contributions
func (c *Coordinator) CreateInvestment(s *Snapshot, in investment.Input, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	inv, err := investment.NewInvestment(in)
	if err != nil {
		return nil, err
	}
	return created(s, OpCreateInvestment, actorID, EntityInvestment, inv.ID, inv)
}

// CreateLiability records a loan taken by the business. A named lender must be a customer.
func (c *Coordinator) CreateLiability(s *Snapshot, in partner.LiabilityInput, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	l, err := partner.NewLiability(in)
	if err != nil {
		return nil, err
	}
	if l.LenderID != "" {
		if _, ok := newIndex(s).customers[l.LenderID]; !ok {
			return nil, shared.NewDependencyNotFound("customer", l.LenderID)
		}
	}
	return created(s, OpCreateLiability, actorID, EntityLiability, l.ID, l)
}

// created is the plan of a plain insert with its CREATE audit entry
func created(s *Snapshot, operation, actorID string, entity EntityType, id string, value shared.AggregateRoot) (*Plan, error) {
	b := newBuilder(s, operation, actorID)
	b.insert(entity, id, value)
	b.collect(value)
	if err := b.audit(audit.ActionCreate, string(entity), id, nil, value); err != nil {
		return nil, err
	}
	return b.plan, nil
}
