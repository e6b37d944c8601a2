package reconcile

import (
	"fmt"

	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/shared"
)

// CreateInvoice issues one invoice numbered max(year's sequence)+1
func (c *Coordinator) CreateInvoice(s *Snapshot, in invoice.Input, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpCreateInvoice, actorID)
	if err := b.checkInvoiceInput(in); err != nil {
		return nil, err
	}
	numbers := invoice.NewAllocator(s.InvoiceNumbers())
	if _, err := b.createInvoice(in, numbers); err != nil {
		return nil, err
	}
	return b.plan, nil
}

// BulkCreateInvoices validates and numbers the whole batch up front, then
// splits the inserts into chunks that commit independently.
func (c *Coordinator) BulkCreateInvoices(s *Snapshot, inputs []invoice.Input, actorID string) (*BulkPlan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, shared.NewValidationError("no invoices given")
	}
	b := newBuilder(s, OpBulkCreateInvoices, actorID)
	for i, in := range inputs {
		if err := b.checkInvoiceInput(in); err != nil {
			return nil, fmt.Errorf("invoice %d: %w", i+1, err)
		}
	}

	numbers := invoice.NewAllocator(s.InvoiceNumbers())
	bulk := newBulkPlan(OpBulkCreateInvoices, len(inputs))
	for i, in := range inputs {
		if i > 0 && i%c.chunkSize == 0 {
			bulk.close(b)
		}
		if _, err := b.createInvoice(in, numbers); err != nil {
			return nil, fmt.Errorf("invoice %d: %w", i+1, err)
		}
		bulk.count()
	}
	bulk.finish(b)
	return bulk.BulkPlan, nil
}

// VoidInvoice marks an invoice void. Its payments stay in the ledger.
func (c *Coordinator) VoidInvoice(s *Snapshot, invoiceID, reason, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpVoidInvoice, actorID)
	inv, err := b.invoice(invoiceID)
	if err != nil {
		return nil, err
	}
	before := inv.Clone()
	if err := inv.Void(reason); err != nil {
		return nil, err
	}
	b.update(EntityInvoice, inv.ID, before.Version, inv.Clone())
	b.collect(inv)
	if err := b.audit(audit.ActionVoid, string(EntityInvoice), inv.ID, before, inv); err != nil {
		return nil, err
	}
	return b.plan, nil
}

// DeleteInvoice removes an invoice together with every payment applied to it.
// Payments are deleted first.
func (c *Coordinator) DeleteInvoice(s *Snapshot, invoiceID, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpDeleteInvoice, actorID)
	inv, err := b.invoice(invoiceID)
	if err != nil {
		return nil, err
	}
	if err := b.deleteInvoices([]*invoice.Invoice{inv}, false); err != nil {
		return nil, err
	}
	return b.plan, nil
}

// BulkDeleteInvoices deletes invoices with their payments, chunked by invoice
func (c *Coordinator) BulkDeleteInvoices(s *Snapshot, invoiceIDs []string, actorID string) (*BulkPlan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := checkBulkIDs(invoiceIDs, "invoice"); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpBulkDeleteInvoices, actorID)
	for _, id := range invoiceIDs {
		if _, err := b.invoice(id); err != nil {
			return nil, err
		}
	}

	bulk := newBulkPlan(OpBulkDeleteInvoices, len(invoiceIDs))
	for i, id := range invoiceIDs {
		if i > 0 && i%c.chunkSize == 0 {
			bulk.close(b)
		}
		inv, err := b.invoice(id)
		if err != nil {
			return nil, err
		}
		if err := b.deleteInvoices([]*invoice.Invoice{inv}, false); err != nil {
			return nil, err
		}
		bulk.count()
	}
	bulk.finish(b)
	return bulk.BulkPlan, nil
}

func (b *builder) checkInvoiceInput(in invoice.Input) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if _, ok := b.idx.customers[in.CustomerID]; !ok {
		return shared.NewDependencyNotFound("customer", in.CustomerID)
	}
	if in.RelatedAuctionID != "" && !b.auctionExists(in.RelatedAuctionID) {
		return shared.NewDependencyNotFound("chit auction", in.RelatedAuctionID)
	}
	return nil
}

// createInvoice numbers and inserts one invoice. The year's sequence scope is
// added to the plan so the caller can serialize concurrent numbering.
func (b *builder) createInvoice(in invoice.Input, numbers *invoice.Allocator) (*invoice.Invoice, error) {
	year := in.Year()
	inv, err := invoice.NewInvoice(in, numbers.Next(year))
	if err != nil {
		return nil, err
	}
	b.scope(shared.InvoiceYearScope(year))
	b.insert(EntityInvoice, inv.ID, inv.Clone())
	b.invoices[inv.ID] = inv
	b.collect(inv)
	if err := b.audit(audit.ActionCreate, string(EntityInvoice), inv.ID, nil, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// deleteInvoices deletes all payments applied to the invoices, then the invoices
func (b *builder) deleteInvoices(invoices []*invoice.Invoice, cascade bool) error {
	for _, inv := range invoices {
		b.doomed[inv.ID] = true
	}
	for _, inv := range invoices {
		for _, linked := range b.idx.paymentsByInvoice[inv.ID] {
			p, err := b.payment(linked.ID)
			if err != nil {
				continue
			}
			if err := b.deletePayment(p, true); err != nil {
				return err
			}
		}
	}
	for _, inv := range invoices {
		b.remove(EntityInvoice, inv.ID, inv.Version)
		delete(b.invoices, inv.ID)
		b.event(invoice.NewInvoiceDeletedEvent(inv, cascade))
		if err := b.audit(audit.ActionDelete, string(EntityInvoice), inv.ID, inv, nil); err != nil {
			return err
		}
	}
	return nil
}
