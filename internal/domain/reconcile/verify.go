package reconcile

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/finledger/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// Violation is one inconsistency found in stored state
type Violation struct {
	Entity  EntityType `json:"entity"`
	ID      string     `json:"id"`
	Message string     `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s", v.Entity, v.ID, v.Message)
}

// Verify checks the cached projections and back-references of a snapshot.
// An empty result means every derived value agrees with the payment log.
func Verify(s *Snapshot) []Violation {
	idx := newIndex(s)
	var out []Violation
	report := func(entity EntityType, id, format string, args ...any) {
		out = append(out, Violation{Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)})
	}

	for i := range s.Invoices {
		inv := &s.Invoices[i]
		if err := inv.CheckInvariants(); err != nil {
			report(EntityInvoice, inv.ID, "%v", err)
		}
		if inv.RelatedAuctionID != "" && idx.groupByAuction[inv.RelatedAuctionID] == nil {
			report(EntityInvoice, inv.ID, "related auction %s does not exist", inv.RelatedAuctionID)
		}
		if inv.IsVoid {
			continue
		}
		applied := decimal.Zero
		for _, p := range idx.paymentsByInvoice[inv.ID] {
			if p.SettlesInvoice() {
				applied = applied.Add(p.Amount)
			}
		}
		if want := decimal.Max(decimal.Zero, inv.Amount.Sub(applied)); !want.Equal(inv.Balance) {
			report(EntityInvoice, inv.ID, "balance %s differs from amount less applied payments %s",
				inv.Balance.StringFixed(2), want.StringFixed(2))
		}
	}

	for i := range s.Payments {
		p := &s.Payments[i]
		if p.InvoiceID != "" && idx.invoices[p.InvoiceID] == nil {
			report(EntityPayment, p.ID, "invoice %s does not exist", p.InvoiceID)
		}
		if p.RelatedAuctionID != "" && idx.groupByAuction[p.RelatedAuctionID] == nil {
			report(EntityPayment, p.ID, "related auction %s does not exist", p.RelatedAuctionID)
		}
	}

	for i := range s.ChitGroups {
		if err := s.ChitGroups[i].CheckInvariants(); err != nil {
			report(EntityChitGroup, s.ChitGroups[i].ID, "%v", err)
		}
	}

	for i := range s.Liabilities {
		l := &s.Liabilities[i]
		if l.RemainingBalance.IsNegative() || l.RemainingBalance.GreaterThan(l.Principal) {
			report(EntityLiability, l.ID, "remaining balance %s outside [0, %s]",
				l.RemainingBalance.StringFixed(2), l.Principal.StringFixed(2))
		}
		closed := l.Status == partner.LiabilityStatusClosed
		if closed != l.RemainingBalance.IsZero() {
			report(EntityLiability, l.ID, "status %s with remaining balance %s", l.Status, l.RemainingBalance.StringFixed(2))
		}
	}

	backing := make(map[string]string)
	for i := range s.Investments {
		inv := &s.Investments[i]
		for _, tx := range inv.Transactions {
			if tx.PaymentID == "" {
				continue
			}
			if idx.payments[tx.PaymentID] == nil {
				report(EntityInvestment, inv.ID, "transaction %s references missing payment %s", tx.ID, tx.PaymentID)
			}
			if other, dup := backing[tx.PaymentID]; dup {
				report(EntityInvestment, inv.ID, "payment %s also backs a transaction on investment %s", tx.PaymentID, other)
			}
			backing[tx.PaymentID] = inv.ID
		}
	}

	slices.SortStableFunc(out, func(a, b Violation) int {
		return cmp.Or(cmp.Compare(a.Entity, b.Entity), cmp.Compare(a.ID, b.ID))
	})
	return out
}
