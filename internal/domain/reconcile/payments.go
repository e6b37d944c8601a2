package reconcile

import (
	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/shared"
)

// ApplyPayment records a new voucher. The payment is written first, then the
// linked invoice and liability transitions follow in the same plan.
func (c *Coordinator) ApplyPayment(s *Snapshot, in ledger.PaymentInput, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpApplyPayment, actorID)
	p, err := ledger.NewPayment(in, b.accounts)
	if err != nil {
		return nil, err
	}
	if err := b.checkPaymentLinks(p, nil); err != nil {
		return nil, err
	}

	b.insert(EntityPayment, p.ID, p.Clone())
	b.payments[p.ID] = p
	if err := b.applyPaymentEffects(p); err != nil {
		return nil, err
	}
	b.event(ledger.NewPaymentRecordedEvent(p))
	if err := b.audit(audit.ActionCreate, string(EntityPayment), p.ID, nil, p); err != nil {
		return nil, err
	}
	return b.plan, nil
}

// EditPayment revises a voucher. The old effect is reversed before the new
// one is applied, and the payment row is written last.
func (c *Coordinator) EditPayment(s *Snapshot, paymentID string, in ledger.PaymentInput, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpEditPayment, actorID)
	current, err := b.payment(paymentID)
	if err != nil {
		return nil, err
	}
	before := current.Clone()
	revised := current.Clone()
	if err := revised.Revise(in, b.accounts); err != nil {
		return nil, err
	}
	if err := b.checkPaymentLinks(revised, before); err != nil {
		return nil, err
	}

	if err := b.reversePaymentEffects(before); err != nil {
		return nil, err
	}
	if err := b.applyPaymentEffects(revised); err != nil {
		return nil, err
	}
	if inv := b.investmentForPayment(paymentID); inv != nil && !revised.Amount.Equal(before.Amount) {
		v := inv.Version
		if err := inv.ReviseContributionAmount(paymentID, revised.Amount); err != nil {
			return nil, err
		}
		b.update(EntityInvestment, inv.ID, v, inv.Clone())
		b.collect(inv)
	}

	b.update(EntityPayment, revised.ID, before.Version, revised.Clone())
	b.payments[paymentID] = revised
	b.event(ledger.NewPaymentRevisedEvent(before, revised))
	if err := b.audit(audit.ActionEdit, string(EntityPayment), revised.ID, before, revised); err != nil {
		return nil, err
	}
	return b.plan, nil
}

// ReversePayment deletes a voucher after undoing its effect on the linked
// invoice, liability and investment.
func (c *Coordinator) ReversePayment(s *Snapshot, paymentID, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpReversePayment, actorID)
	p, err := b.payment(paymentID)
	if err != nil {
		return nil, err
	}
	if err := b.deletePayment(p, false); err != nil {
		return nil, err
	}
	return b.plan, nil
}

// BulkDeletePayments reverses many vouchers in independently committed chunks
func (c *Coordinator) BulkDeletePayments(s *Snapshot, paymentIDs []string, actorID string) (*BulkPlan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := checkBulkIDs(paymentIDs, "payment"); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpBulkDeletePayments, actorID)
	bulk := newBulkPlan(OpBulkDeletePayments, len(paymentIDs))
	for i, id := range paymentIDs {
		if i > 0 && i%c.chunkSize == 0 {
			bulk.close(b)
		}
		p, err := b.payment(id)
		if err != nil {
			return nil, err
		}
		if err := b.deletePayment(p, false); err != nil {
			return nil, err
		}
		bulk.count()
	}
	bulk.finish(b)
	return bulk.BulkPlan, nil
}

// checkPaymentLinks verifies accounts and back-references before any write.
// previous is the pre-edit payment, nil for a new one.
func (b *builder) checkPaymentLinks(p, previous *ledger.Payment) error {
	for _, mode := range []ledger.AccountMode{p.Mode, p.TargetMode} {
		if mode == "" || !b.accounts.IsArchived(mode) {
			continue
		}
		if previous != nil && previous.Touches(mode) {
			continue
		}
		return shared.NewInvalidState("account %s is archived", mode)
	}
	if p.InvoiceID != "" {
		inv, err := b.invoice(p.InvoiceID)
		if err != nil {
			return err
		}
		if inv.IsVoid && (previous == nil || previous.InvoiceID != p.InvoiceID) {
			return shared.NewInvalidState("invoice %s is void", inv.InvoiceNumber)
		}
	}
	if p.RelatedAuctionID != "" && !b.auctionExists(p.RelatedAuctionID) {
		return shared.NewDependencyNotFound("chit auction", p.RelatedAuctionID)
	}
	return nil
}

// repaidLiability returns the liability an OUT loan payment repays
func (b *builder) repaidLiability(p *ledger.Payment) *partner.Liability {
	if p.Type != ledger.PaymentTypeOut || p.Category != ledger.CategoryLoan {
		return nil
	}
	return b.liability(p.SourceID)
}

func (b *builder) applyPaymentEffects(p *ledger.Payment) error {
	if p.SettlesInvoice() {
		inv, err := b.invoice(p.InvoiceID)
		if err != nil {
			return err
		}
		if !inv.IsVoid {
			v := inv.Version
			if err := inv.ApplyPayment(p.ID, p.Amount); err != nil {
				return err
			}
			b.update(EntityInvoice, inv.ID, v, inv.Clone())
			b.collect(inv)
		}
	}
	if l := b.repaidLiability(p); l != nil {
		v := l.Version
		if err := l.Repay(p.Amount); err != nil {
			return err
		}
		b.update(EntityLiability, l.ID, v, l.Clone())
	}
	return nil
}

// reversePaymentEffects undoes applyPaymentEffects. Invoices deleted later in
// the same plan and void invoices keep their balance. A missing invoice
// aborts the plan.
func (b *builder) reversePaymentEffects(p *ledger.Payment) error {
	if p.SettlesInvoice() && !b.doomed[p.InvoiceID] {
		inv, err := b.invoice(p.InvoiceID)
		if err != nil {
			return err
		}
		if !inv.IsVoid {
			v := inv.Version
			if err := inv.ReversePayment(p.ID, p.Amount); err != nil {
				return err
			}
			b.update(EntityInvoice, inv.ID, v, inv.Clone())
			b.collect(inv)
		}
	}
	if l := b.repaidLiability(p); l != nil {
		v := l.Version
		if err := l.UndoRepayment(p.Amount); err != nil {
			return err
		}
		b.update(EntityLiability, l.ID, v, l.Clone())
	}
	return nil
}

// deletePayment emits the reversal and the delete of one payment.
// cascade marks deletes triggered by a parent entity.
func (b *builder) deletePayment(p *ledger.Payment, cascade bool) error {
	if err := b.reversePaymentEffects(p); err != nil {
		return err
	}
	if inv := b.investmentForPayment(p.ID); inv != nil {
		v := inv.Version
		tx, _ := inv.RemoveContributionByPayment(p.ID)
		b.update(EntityInvestment, inv.ID, v, inv.Clone())
		if err := b.audit(audit.ActionDelete, AuditEntityInvestmentTransaction, tx.ID, tx, nil); err != nil {
			return err
		}
	}
	b.remove(EntityPayment, p.ID, p.Version)
	delete(b.payments, p.ID)
	b.event(ledger.NewPaymentReversedEvent(p, cascade))
	return b.audit(audit.ActionDelete, string(EntityPayment), p.ID, p, nil)
}
