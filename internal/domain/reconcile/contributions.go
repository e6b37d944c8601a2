package reconcile

import (
	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/shared"
)

// RecordContribution appends a transaction to an investment. A voucher can
// back only one transaction across all investments. When the contribution is
// tied to a voucher and carries no amount, the voucher's amount is used.
func (c *Coordinator) RecordContribution(s *Snapshot, investmentID string, in investment.ContributionInput, actorID string) (*Plan, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	b := newBuilder(s, OpRecordContribution, actorID)
	inv, err := b.investment(investmentID)
	if err != nil {
		return nil, err
	}
	if in.PaymentID != "" {
		p, err := b.payment(in.PaymentID)
		if err != nil {
			return nil, err
		}
		if holder := b.investmentForPayment(in.PaymentID); holder != nil {
			return nil, shared.NewIntegrityViolation("payment %s is already recorded on investment %s",
				in.PaymentID, holder.Name)
		}
		if in.AmountPaid.IsZero() {
			in.AmountPaid = p.Amount
		}
	}

	v := inv.Version
	tx, err := inv.RecordContribution(in)
	if err != nil {
		return nil, err
	}
	b.update(EntityInvestment, inv.ID, v, inv.Clone())
	b.collect(inv)
	if err := b.audit(audit.ActionCreate, AuditEntityInvestmentTransaction, tx.ID, nil, tx); err != nil {
		return nil, err
	}
	return b.plan, nil
}
