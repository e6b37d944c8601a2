package reconcile

import (
	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AuctionRequest records one auction and optionally raises invoices for it.
// CommissionInvoice bills the winner for the foreman's commission; PayoutInvoice
// records the prize owed to the winner.
type AuctionRequest struct {
	chit.AuctionInput
	CommissionInvoice bool
	PayoutInvoice     bool
}

// RecordAuction appends the auction and advances the month in one group
// write. Invoices generated for the auction follow the group write and carry
// its id for cascade delete.
func (c *Coordinator) RecordAuction(s *Snapshot, groupID string, req AuctionRequest, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpRecordAuction, actorID)
	g, err := b.group(groupID)
	if err != nil {
		return nil, err
	}
	v := g.Version
	auction, err := g.RecordAuction(req.AuctionInput)
	if err != nil {
		return nil, err
	}
	if req.CommissionInvoice || req.PayoutInvoice {
		if _, ok := b.idx.customers[auction.WinnerID]; !ok {
			return nil, shared.NewDependencyNotFound("customer", auction.WinnerID)
		}
	}

	b.scope(shared.ChitGroupScope(g.ID))
	b.update(EntityChitGroup, g.ID, v, g.Clone())
	b.collect(g)
	if err := b.audit(audit.ActionCreate, AuditEntityChitAuction, auction.ID, nil, auction); err != nil {
		return nil, err
	}

	numbers := invoice.NewAllocator(s.InvoiceNumbers())
	raise := func(amount decimal.Decimal, direction invoice.Direction, note string) error {
		if !amount.IsPositive() {
			return nil
		}
		_, err := b.createInvoice(invoice.Input{
			CustomerID:       auction.WinnerID,
			Type:             invoice.TypeChit,
			Direction:        direction,
			Amount:           amount,
			RelatedAuctionID: auction.ID,
			IssueDate:        auction.Date,
			Notes:            note,
		}, numbers)
		return err
	}
	if req.CommissionInvoice {
		if err := raise(auction.CommissionAmount, invoice.DirectionIn, g.Name+" commission"); err != nil {
			return nil, err
		}
	}
	if req.PayoutInvoice {
		if err := raise(auction.WinnerHand, invoice.DirectionOut, g.Name+" prize"); err != nil {
			return nil, err
		}
	}
	return b.plan, nil
}

// DeleteAuction removes the most recent auction of a group. Dependents go
// first: payments tied to the auction or its invoices, then the invoices,
// then the group write that steps the month back.
func (c *Coordinator) DeleteAuction(s *Snapshot, groupID, auctionID, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpDeleteAuction, actorID)
	g, err := b.group(groupID)
	if err != nil {
		return nil, err
	}
	v := g.Version
	removed, err := g.DeleteAuction(auctionID)
	if err != nil {
		return nil, err
	}
	b.scope(shared.ChitGroupScope(g.ID))

	invoices := make([]*invoice.Invoice, 0, len(b.idx.invoicesByAuction[removed.ID]))
	for _, linked := range b.idx.invoicesByAuction[removed.ID] {
		inv, err := b.invoice(linked.ID)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
		b.doomed[inv.ID] = true
	}
	for _, linked := range b.idx.paymentsByAuction[removed.ID] {
		p, err := b.payment(linked.ID)
		if err != nil {
			continue
		}
		if err := b.deletePayment(p, true); err != nil {
			return nil, err
		}
	}
	if err := b.deleteInvoices(invoices, true); err != nil {
		return nil, err
	}

	b.update(EntityChitGroup, g.ID, v, g.Clone())
	b.collect(g)
	if err := b.audit(audit.ActionDelete, AuditEntityChitAuction, removed.ID, removed, nil); err != nil {
		return nil, err
	}
	return b.plan, nil
}
