package reconcile

import (
	"testing"

	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_CleanAfterCoordinatedMutations(t *testing.T) {
	w := newWorld(t)
	inv := w.newInvoice(t, "1000")
	w.pay(t, ledger.PaymentTypeIn, "CASH", "250", inv.ID)
	pay := w.pay(t, ledger.PaymentTypeIn, "CASH", "300", inv.ID)

	in := pay.Input()
	in.Amount = d("500")
	p, err := w.c.EditPayment(w.s, pay.ID, in, actor)
	w.commit(t, p, err)

	assert.Empty(t, Verify(w.s))
}

func TestVerify_ReportsDrift(t *testing.T) {
	w := newWorld(t)
	inv := w.newInvoice(t, "1000")
	w.pay(t, ledger.PaymentTypeIn, "CASH", "400", inv.ID)

	drifted := w.invoice(t, inv.ID)
	drifted.Balance = d("650")

	w.s.Payments = append(w.s.Payments, ledger.Payment{InvoiceID: "gone"})
	w.s.Payments[len(w.s.Payments)-1].ID = "orphan"
	w.s.Liabilities = append(w.s.Liabilities, partner.Liability{
		Principal:        d("100"),
		RemainingBalance: d("0"),
		Status:           partner.LiabilityStatusActive,
	})
	w.s.Liabilities[0].ID = "loan"

	got := Verify(w.s)
	require.Len(t, got, 3)
	assert.Equal(t, EntityInvoice, got[0].Entity)
	assert.Contains(t, got[0].Message, "600.00")
	assert.Equal(t, EntityLiability, got[1].Entity)
	assert.Equal(t, "orphan", got[2].ID)
}
