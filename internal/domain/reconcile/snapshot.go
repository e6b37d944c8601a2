package reconcile

import (
	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// Snapshot is the full state the coordinator reasons about.
// It is read-only: every mutation works on clones.
type Snapshot struct {
	Customers          []partner.Customer      `json:"customers"`
	Invoices           []invoice.Invoice       `json:"invoices"`
	Payments           []ledger.Payment        `json:"payments"`
	Liabilities        []partner.Liability     `json:"liabilities"`
	Investments        []investment.Investment `json:"investments"`
	ChitGroups         []chit.ChitGroup        `json:"chit_groups"`
	BankAccounts       []ledger.BankAccount    `json:"bank_accounts"`
	CashOpeningBalance decimal.Decimal         `json:"cash_opening_balance"`
	AuditLogs          []audit.AuditLog        `json:"audit_logs,omitempty"`
}

// OpeningBalances returns the opening balance of every account
func (s *Snapshot) OpeningBalances() ledger.OpeningBalances {
	return ledger.NewOpeningBalances(s.CashOpeningBalance, s.BankAccounts)
}

// Accounts returns the registry of known accounts
func (s *Snapshot) Accounts() *ledger.AccountRegistry {
	return ledger.NewAccountRegistry(s.BankAccounts)
}

// InvoiceNumbers returns every issued invoice number
func (s *Snapshot) InvoiceNumbers() []string {
	out := make([]string, 0, len(s.Invoices))
	for i := range s.Invoices {
		out = append(out, s.Invoices[i].InvoiceNumber)
	}
	return out
}

// index gives O(1) lookups over a snapshot
type index struct {
	customers         map[string]*partner.Customer
	invoices          map[string]*invoice.Invoice
	payments          map[string]*ledger.Payment
	liabilities       map[string]*partner.Liability
	investments       map[string]*investment.Investment
	chitGroups        map[string]*chit.ChitGroup
	bankAccounts      map[string]*ledger.BankAccount
	paymentsByInvoice map[string][]*ledger.Payment
	paymentsByAuction map[string][]*ledger.Payment
	invoicesByAuction map[string][]*invoice.Invoice
	investmentByPay   map[string]*investment.Investment
	groupByAuction    map[string]*chit.ChitGroup
}

func newIndex(s *Snapshot) *index {
	idx := &index{
		customers:         make(map[string]*partner.Customer, len(s.Customers)),
		invoices:          make(map[string]*invoice.Invoice, len(s.Invoices)),
		payments:          make(map[string]*ledger.Payment, len(s.Payments)),
		liabilities:       make(map[string]*partner.Liability, len(s.Liabilities)),
		investments:       make(map[string]*investment.Investment, len(s.Investments)),
		chitGroups:        make(map[string]*chit.ChitGroup, len(s.ChitGroups)),
		bankAccounts:      make(map[string]*ledger.BankAccount, len(s.BankAccounts)),
		paymentsByInvoice: make(map[string][]*ledger.Payment),
		paymentsByAuction: make(map[string][]*ledger.Payment),
		invoicesByAuction: make(map[string][]*invoice.Invoice),
		investmentByPay:   make(map[string]*investment.Investment),
		groupByAuction:    make(map[string]*chit.ChitGroup),
	}
	for i := range s.Customers {
		idx.customers[s.Customers[i].ID] = &s.Customers[i]
	}
	for i := range s.Invoices {
		inv := &s.Invoices[i]
		idx.invoices[inv.ID] = inv
		if inv.RelatedAuctionID != "" {
			idx.invoicesByAuction[inv.RelatedAuctionID] = append(idx.invoicesByAuction[inv.RelatedAuctionID], inv)
		}
	}
	for i := range s.Payments {
		p := &s.Payments[i]
		idx.payments[p.ID] = p
		if p.InvoiceID != "" {
			idx.paymentsByInvoice[p.InvoiceID] = append(idx.paymentsByInvoice[p.InvoiceID], p)
		}
		if p.RelatedAuctionID != "" {
			idx.paymentsByAuction[p.RelatedAuctionID] = append(idx.paymentsByAuction[p.RelatedAuctionID], p)
		}
	}
	for i := range s.Liabilities {
		idx.liabilities[s.Liabilities[i].ID] = &s.Liabilities[i]
	}
	for i := range s.Investments {
		inv := &s.Investments[i]
		idx.investments[inv.ID] = inv
		for _, tx := range inv.Transactions {
			if tx.PaymentID != "" {
				idx.investmentByPay[tx.PaymentID] = inv
			}
		}
	}
	for i := range s.ChitGroups {
		g := &s.ChitGroups[i]
		idx.chitGroups[g.ID] = g
		for _, a := range g.Auctions {
			idx.groupByAuction[a.ID] = g
		}
	}
	for i := range s.BankAccounts {
		idx.bankAccounts[s.BankAccounts[i].ID] = &s.BankAccounts[i]
	}
	return idx
}
