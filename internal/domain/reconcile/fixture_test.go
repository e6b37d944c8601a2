package reconcile

import (
	"testing"
	"time"

	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const actor = "staff-1"

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// world is a snapshot that plans are committed to in memory
type world struct {
	s    *Snapshot
	c    *Coordinator
	cust *partner.Customer
	bank *ledger.BankAccount
}

func newWorld(t *testing.T, opts ...Option) *world {
	t.Helper()
	cust, err := partner.NewCustomer(partner.CustomerInput{Name: "Lakshmi Traders"})
	require.NoError(t, err)
	bank, err := ledger.NewBankAccount("SBI Current", "SBI", "0012345", d("5000"))
	require.NoError(t, err)
	return &world{
		s: &Snapshot{
			Customers:          []partner.Customer{*cust},
			BankAccounts:       []ledger.BankAccount{*bank},
			CashOpeningBalance: d("1000"),
		},
		c:    NewCoordinator(opts...),
		cust: cust,
		bank: bank,
	}
}

func (w *world) commit(t *testing.T, p *Plan, err error) *Plan {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NoError(t, w.s.Apply(p))
	return p
}

func (w *world) newInvoice(t *testing.T, amount string) *invoice.Invoice {
	t.Helper()
	p, err := w.c.CreateInvoice(w.s, invoice.Input{
		CustomerID: w.cust.ID,
		Type:       invoice.TypeRoyalty,
		Amount:     d(amount),
		IssueDate:  time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}, actor)
	w.commit(t, p, err)
	return w.invoice(t, p.Writes[0].ID)
}

func (w *world) pay(t *testing.T, typ ledger.PaymentType, mode, amount, invoiceID string) *ledger.Payment {
	t.Helper()
	p, err := w.c.ApplyPayment(w.s, ledger.PaymentInput{
		Type:      typ,
		Mode:      mode,
		Amount:    d(amount),
		InvoiceID: invoiceID,
	}, actor)
	w.commit(t, p, err)
	return w.payment(t, p.Writes[0].ID)
}

func (w *world) newGroup(t *testing.T, duration int, members ...string) *chit.ChitGroup {
	t.Helper()
	p, err := w.c.CreateChitGroup(w.s, chit.GroupInput{
		Name:                 "Diwali 5L",
		TotalValue:           d("500000"),
		DurationMonths:       duration,
		MonthlyInstallment:   d("25000"),
		CommissionPercentage: d("5"),
		Members:              members,
	}, actor)
	w.commit(t, p, err)
	return w.group(t, p.Writes[0].ID)
}

func (w *world) invoice(t *testing.T, id string) *invoice.Invoice {
	t.Helper()
	for i := range w.s.Invoices {
		if w.s.Invoices[i].ID == id {
			return &w.s.Invoices[i]
		}
	}
	t.Fatalf("invoice %s not in snapshot", id)
	return nil
}

func (w *world) payment(t *testing.T, id string) *ledger.Payment {
	t.Helper()
	for i := range w.s.Payments {
		if w.s.Payments[i].ID == id {
			return &w.s.Payments[i]
		}
	}
	t.Fatalf("payment %s not in snapshot", id)
	return nil
}

func (w *world) group(t *testing.T, id string) *chit.ChitGroup {
	t.Helper()
	for i := range w.s.ChitGroups {
		if w.s.ChitGroups[i].ID == id {
			return &w.s.ChitGroups[i]
		}
	}
	t.Fatalf("chit group %s not in snapshot", id)
	return nil
}

func (w *world) cashBalance() decimal.Decimal {
	return ledger.ComputeAccountBalance(w.s.Payments, w.s.OpeningBalances(), ledger.CashMode)
}

// shape lists a plan's writes as "OP ENTITY" for order assertions
func shape(p *Plan) []string {
	out := make([]string, 0, len(p.Writes))
	for _, wr := range p.Writes {
		out = append(out, string(wr.Op)+" "+string(wr.Entity))
	}
	return out
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, shared.ErrorCode(err), err.Error())
}
