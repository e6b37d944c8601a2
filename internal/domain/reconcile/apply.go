package reconcile

import (
	"fmt"
	"slices"

	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/shared"
)

// Apply executes a plan against the snapshot in memory with the same version
// checks a database executor performs. Either every write lands or none does.
func (s *Snapshot) Apply(p *Plan) error {
	next := Snapshot{
		Customers:          slices.Clone(s.Customers),
		Invoices:           slices.Clone(s.Invoices),
		Payments:           slices.Clone(s.Payments),
		Liabilities:        slices.Clone(s.Liabilities),
		Investments:        slices.Clone(s.Investments),
		ChitGroups:         slices.Clone(s.ChitGroups),
		BankAccounts:       slices.Clone(s.BankAccounts),
		CashOpeningBalance: s.CashOpeningBalance,
		AuditLogs:          slices.Clone(s.AuditLogs),
	}
	var err error
	for i, w := range p.Writes {
		switch w.Entity {
		case EntityPayment:
			next.Payments, err = applyTo[ledger.Payment](next.Payments, w)
		case EntityInvoice:
			next.Invoices, err = applyTo[invoice.Invoice](next.Invoices, w)
		case EntityChitGroup:
			next.ChitGroups, err = applyTo[chit.ChitGroup](next.ChitGroups, w)
		case EntityInvestment:
			next.Investments, err = applyTo[investment.Investment](next.Investments, w)
		case EntityLiability:
			next.Liabilities, err = applyTo[partner.Liability](next.Liabilities, w)
		case EntityCustomer:
			next.Customers, err = applyTo[partner.Customer](next.Customers, w)
		case EntityBankAccount:
			next.BankAccounts, err = applyTo[ledger.BankAccount](next.BankAccounts, w)
		case EntityOpeningBalance:
			ob, ok := w.Value.(*ledger.OpeningBalance)
			if !ok {
				err = fmt.Errorf("opening balance write carries %T", w.Value)
				break
			}
			next.CashOpeningBalance = ob.Amount
		default:
			err = fmt.Errorf("unknown entity %q", w.Entity)
		}
		if err != nil {
			return fmt.Errorf("write %d (%s %s %s): %w", i+1, w.Op, w.Entity, w.ID, err)
		}
	}
	for _, entry := range p.AuditLogs {
		next.AuditLogs = append(next.AuditLogs, *entry)
	}
	*s = next
	return nil
}

type versioned[T any] interface {
	*T
	shared.AggregateRoot
}

func applyTo[T any, P versioned[T]](list []T, w Write) ([]T, error) {
	at := slices.IndexFunc(list, func(v T) bool { return P(&v).GetID() == w.ID })
	value := func() (T, error) {
		v, ok := w.Value.(P)
		if !ok {
			var zero T
			return zero, fmt.Errorf("%s write carries %T", w.Entity, w.Value)
		}
		return *v, nil
	}

	switch w.Op {
	case OpInsert:
		if at >= 0 {
			return nil, shared.NewIntegrityViolation("%s %s already exists", w.Entity, w.ID)
		}
		v, err := value()
		if err != nil {
			return nil, err
		}
		return append(list, v), nil
	case OpUpsert:
		v, err := value()
		if err != nil {
			return nil, err
		}
		if at < 0 {
			return append(list, v), nil
		}
		list[at] = v
		return list, nil
	case OpUpdate, OpDelete:
		if at < 0 {
			return nil, shared.NewConcurrencyConflict("%s %s no longer exists", w.Entity, w.ID)
		}
		if stored := P(&list[at]).GetVersion(); stored != w.ExpectedVersion {
			return nil, shared.NewConcurrencyConflict("%s %s is at version %d, expected %d",
				w.Entity, w.ID, stored, w.ExpectedVersion)
		}
		if w.Op == OpDelete {
			return slices.Delete(list, at, at+1), nil
		}
		v, err := value()
		if err != nil {
			return nil, err
		}
		list[at] = v
		return list, nil
	}
	return nil, fmt.Errorf("unknown op %q", w.Op)
}
