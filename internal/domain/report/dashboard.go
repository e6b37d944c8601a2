package report

import (
	"sort"

	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/shopspring/decimal"
)

// AccountBalance is the derived balance of one account
type AccountBalance struct {
	Mode    ledger.AccountMode `json:"mode"`
	Name    string             `json:"name"`
	Balance decimal.Decimal    `json:"balance"`
}

// CustomerCounts counts customers per portfolio flag. A customer may count in several.
type CustomerCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Royalty  int `json:"royalty"`
	Interest int `json:"interest"`
	Chit     int `json:"chit"`
	General  int `json:"general"`
	Lender   int `json:"lender"`
}

// DashboardStats is a read model computed from a snapshot.
// Void invoices and archived accounts are left out of every figure.
type DashboardStats struct {
	CashBalance            decimal.Decimal        `json:"cash_balance"`
	BankBalances           []AccountBalance       `json:"bank_balances"`
	TotalLiquid            decimal.Decimal        `json:"total_liquid"`   // cash + active bank accounts
	Receivables            decimal.Decimal        `json:"receivables"`    // outstanding on IN invoices
	Payables               decimal.Decimal        `json:"payables"`       // outstanding on OUT invoices
	InvoiceCounts          map[invoice.Status]int `json:"invoice_counts"` // non-void only
	VoidInvoices           int                    `json:"void_invoices"`
	LiabilitiesOutstanding decimal.Decimal        `json:"liabilities_outstanding"` // ACTIVE liabilities
	ActiveLiabilities      int                    `json:"active_liabilities"`
	TotalInvested          decimal.Decimal        `json:"total_invested"`
	TotalDividends         decimal.Decimal        `json:"total_dividends"`
	ActiveChitGroups       int                    `json:"active_chit_groups"`
	ChitCommissionEarned   decimal.Decimal        `json:"chit_commission_earned"`
	InterestPrincipalLent  decimal.Decimal        `json:"interest_principal_lent"`
	CreditPrincipalOwed    decimal.Decimal        `json:"credit_principal_owed"`
	Customers              CustomerCounts         `json:"customers"`
}

// ComputeDashboardStats derives the dashboard from a snapshot. It has no side effects.
func ComputeDashboardStats(s *reconcile.Snapshot) DashboardStats {
	stats := DashboardStats{
		BankBalances:           make([]AccountBalance, 0, len(s.BankAccounts)),
		InvoiceCounts:          map[invoice.Status]int{invoice.StatusUnpaid: 0, invoice.StatusPartial: 0, invoice.StatusPaid: 0},
		Receivables:            decimal.Zero,
		Payables:               decimal.Zero,
		LiabilitiesOutstanding: decimal.Zero,
		TotalInvested:          decimal.Zero,
		TotalDividends:         decimal.Zero,
		ChitCommissionEarned:   decimal.Zero,
		InterestPrincipalLent:  decimal.Zero,
		CreditPrincipalOwed:    decimal.Zero,
	}

	balances := ledger.ComputeBalances(s.Payments, s.OpeningBalances())
	stats.CashBalance = balances[ledger.CashMode]
	stats.TotalLiquid = stats.CashBalance
	for i := range s.BankAccounts {
		acc := &s.BankAccounts[i]
		if acc.IsArchived() {
			continue
		}
		bal := balances[acc.Mode()]
		stats.BankBalances = append(stats.BankBalances, AccountBalance{Mode: acc.Mode(), Name: acc.Name, Balance: bal})
		stats.TotalLiquid = stats.TotalLiquid.Add(bal)
	}
	sort.Slice(stats.BankBalances, func(i, j int) bool {
		return stats.BankBalances[i].Name < stats.BankBalances[j].Name
	})

	for i := range s.Invoices {
		inv := &s.Invoices[i]
		if inv.IsVoid {
			stats.VoidInvoices++
			continue
		}
		stats.InvoiceCounts[inv.Status]++
		if inv.Direction == invoice.DirectionOut {
			stats.Payables = stats.Payables.Add(inv.Outstanding())
		} else {
			stats.Receivables = stats.Receivables.Add(inv.Outstanding())
		}
	}

	for i := range s.Liabilities {
		l := &s.Liabilities[i]
		if l.Status == partner.LiabilityStatusActive {
			stats.ActiveLiabilities++
			stats.LiabilitiesOutstanding = stats.LiabilitiesOutstanding.Add(l.RemainingBalance)
		}
	}

	for i := range s.Investments {
		stats.TotalInvested = stats.TotalInvested.Add(s.Investments[i].TotalInvested())
		stats.TotalDividends = stats.TotalDividends.Add(s.Investments[i].TotalDividends())
	}

	for i := range s.ChitGroups {
		st := chit.ComputeChitState(&s.ChitGroups[i])
		if st.Status == chit.GroupStatusActive {
			stats.ActiveChitGroups++
		}
		stats.ChitCommissionEarned = stats.ChitCommissionEarned.Add(st.TotalCommission)
	}

	for i := range s.Customers {
		c := &s.Customers[i]
		stats.Customers.Total++
		if c.IsActive() {
			stats.Customers.Active++
		}
		countFlag(&stats.Customers.Royalty, c.IsRoyalty)
		countFlag(&stats.Customers.Interest, c.IsInterest)
		countFlag(&stats.Customers.Chit, c.IsChit)
		countFlag(&stats.Customers.General, c.IsGeneral)
		countFlag(&stats.Customers.Lender, c.IsLender)
		stats.InterestPrincipalLent = stats.InterestPrincipalLent.Add(c.InterestPrincipal)
		stats.CreditPrincipalOwed = stats.CreditPrincipalOwed.Add(c.CreditPrincipal)
	}
	return stats
}

func countFlag(n *int, set bool) {
	if set {
		*n++
	}
}
