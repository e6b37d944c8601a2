package report

import (
	"testing"

	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const actor = "staff-1"

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func commit(t *testing.T, s *reconcile.Snapshot, p *reconcile.Plan, err error) *reconcile.Plan {
	t.Helper()
	require.NoError(t, err)
	require.NoError(t, s.Apply(p))
	return p
}

func TestComputeDashboardStats(t *testing.T) {
	c := reconcile.NewCoordinator()
	s := &reconcile.Snapshot{CashOpeningBalance: d("1000")}

	p, err := c.CreateCustomer(s, partner.CustomerInput{
		Name:              "Anand",
		Portfolio:         partner.Portfolio{IsChit: true, IsInterest: true},
		InterestPrincipal: d("20000"),
	}, actor)
	custID := commit(t, s, p, err).Writes[0].ID
	p, err = c.CreateCustomer(s, partner.CustomerInput{
		Name:            "Bhavani",
		Portfolio:       partner.Portfolio{IsLender: true},
		CreditPrincipal: d("50000"),
	}, actor)
	commit(t, s, p, err)

	p, err = c.CreateBankAccount(s, reconcile.BankAccountInput{Name: "Axis", OpeningBalance: d("300")}, actor)
	axis := commit(t, s, p, err).Writes[0].ID
	p, err = c.CreateBankAccount(s, reconcile.BankAccountInput{Name: "Old Canara", OpeningBalance: d("900")}, actor)
	canara := commit(t, s, p, err).Writes[0].ID
	p, err = c.ArchiveBankAccount(s, canara, actor)
	commit(t, s, p, err)

	p, err = c.CreateInvoice(s, invoice.Input{CustomerID: custID, Type: invoice.TypeInterest, Amount: d("1000")}, actor)
	receivable := commit(t, s, p, err).Writes[0].ID
	p, err = c.CreateInvoice(s, invoice.Input{CustomerID: custID, Type: invoice.TypeInterestOut, Amount: d("400")}, actor)
	commit(t, s, p, err)
	p, err = c.CreateInvoice(s, invoice.Input{CustomerID: custID, Type: invoice.TypeRoyalty, Amount: d("5000")}, actor)
	voided := commit(t, s, p, err).Writes[0].ID
	p, err = c.VoidInvoice(s, voided, "", actor)
	commit(t, s, p, err)

	p, err = c.ApplyPayment(s, ledger.PaymentInput{Type: ledger.PaymentTypeIn, Mode: axis, Amount: d("250"), InvoiceID: receivable}, actor)
	commit(t, s, p, err)
	p, err = c.ApplyPayment(s, ledger.PaymentInput{
		Type: ledger.PaymentTypeOut, VoucherType: ledger.VoucherContra, Mode: "CASH", TargetMode: axis, Amount: d("100"),
	}, actor)
	commit(t, s, p, err)

	p, err = c.CreateLiability(s, partner.LiabilityInput{Name: "OD", Principal: d("8000")}, actor)
	commit(t, s, p, err)

	p, err = c.CreateChitGroup(s, chit.GroupInput{
		Name: "Ugadi", TotalValue: d("100000"), DurationMonths: 10, CommissionPercentage: d("5"),
	}, actor)
	groupID := commit(t, s, p, err).Writes[0].ID
	p, err = c.RecordAuction(s, groupID, reconcile.AuctionRequest{AuctionInput: chit.AuctionInput{WinnerID: custID, BidAmount: d("20000")}}, actor)
	commit(t, s, p, err)

	p, err = c.CreateInvestment(s, investment.Input{Name: "FD", ContributionType: investment.ContributionLumpSum, AmountInvested: d("15000")}, actor)
	commit(t, s, p, err)

	stats := ComputeDashboardStats(s)

	assert.True(t, d("900").Equal(stats.CashBalance))
	require.Len(t, stats.BankBalances, 1, "archived account is hidden")
	assert.Equal(t, "Axis", stats.BankBalances[0].Name)
	assert.True(t, d("650").Equal(stats.BankBalances[0].Balance))
	assert.True(t, d("1550").Equal(stats.TotalLiquid))

	assert.True(t, d("750").Equal(stats.Receivables))
	assert.True(t, d("400").Equal(stats.Payables))
	assert.Equal(t, 1, stats.InvoiceCounts[invoice.StatusPartial])
	assert.Equal(t, 1, stats.InvoiceCounts[invoice.StatusUnpaid])
	assert.Equal(t, 0, stats.InvoiceCounts[invoice.StatusPaid])
	assert.Equal(t, 1, stats.VoidInvoices)

	assert.True(t, d("8000").Equal(stats.LiabilitiesOutstanding))
	assert.Equal(t, 1, stats.ActiveLiabilities)
	assert.True(t, d("15000").Equal(stats.TotalInvested))
	assert.Equal(t, 1, stats.ActiveChitGroups)
	assert.True(t, d("5000").Equal(stats.ChitCommissionEarned))

	assert.Equal(t, CustomerCounts{Total: 2, Active: 2, Interest: 1, Chit: 1, Lender: 1}, stats.Customers)
	assert.True(t, d("20000").Equal(stats.InterestPrincipalLent))
	assert.True(t, d("50000").Equal(stats.CreditPrincipalOwed))
}

func TestComputeDashboardStats_Empty(t *testing.T) {
	stats := ComputeDashboardStats(&reconcile.Snapshot{})
	assert.True(t, stats.CashBalance.IsZero())
	assert.True(t, stats.TotalLiquid.IsZero())
	assert.Empty(t, stats.BankBalances)
	assert.Equal(t, 0, stats.InvoiceCounts[invoice.StatusUnpaid])
}
