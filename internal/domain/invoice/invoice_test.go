package invoice

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newTestInvoice(t *testing.T, amount string) *Invoice {
	t.Helper()
	inv, err := NewInvoice(Input{
		CustomerID: "cust-1",
		Type:       TypeInterest,
		Amount:     d(amount),
		IssueDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}, "INV-2026-0001")
	require.NoError(t, err)
	return inv
}

func TestComputeInvoiceStatus(t *testing.T) {
	tests := []struct {
		amount, balance string
		want            Status
	}{
		{"1000", "1000", StatusUnpaid},
		{"1000", "600", StatusPartial},
		{"1000", "0.01", StatusPartial},
		{"1000", "0", StatusPaid},
		{"1000", "-5", StatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.amount+"/"+tt.balance, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeInvoiceStatus(d(tt.amount), d(tt.balance)))
		})
	}
}

func TestInvoice_PartialThenPaidThenReversed(t *testing.T) {
	inv := newTestInvoice(t, "1000")
	assert.Equal(t, StatusUnpaid, inv.Status)
	assert.True(t, d("1000").Equal(inv.Balance))

	require.NoError(t, inv.ApplyPayment("p1", d("400")))
	assert.True(t, d("600").Equal(inv.Balance))
	assert.Equal(t, StatusPartial, inv.Status)

	require.NoError(t, inv.ApplyPayment("p2", d("600")))
	assert.True(t, decimal.Zero.Equal(inv.Balance))
	assert.Equal(t, StatusPaid, inv.Status)

	require.NoError(t, inv.ReversePayment("p2", d("600")))
	assert.True(t, d("600").Equal(inv.Balance))
	assert.Equal(t, StatusPartial, inv.Status)

	assert.Equal(t, 4, inv.Version)
	assert.Len(t, inv.GetDomainEvents(), 4)
}

func TestInvoice_ApplyAboveOutstandingIsRejected(t *testing.T) {
	inv := newTestInvoice(t, "100")
	require.NoError(t, inv.ApplyPayment("p1", d("60")))

	err := inv.ApplyPayment("p2", d("40.01"))
	require.Error(t, err)
	assert.Equal(t, shared.CodeValidation, shared.ErrorCode(err))
	assert.True(t, d("40").Equal(inv.Balance), "rejected payment must not change the balance")
	assert.Equal(t, 2, inv.Version)

	require.NoError(t, inv.ApplyPayment("p2", d("40")))
	assert.True(t, decimal.Zero.Equal(inv.Balance))
	assert.Equal(t, StatusPaid, inv.Status)
}

func TestInvoice_ReverseAboveAmountIsIntegrityViolation(t *testing.T) {
	inv := newTestInvoice(t, "100")
	require.NoError(t, inv.ApplyPayment("p1", d("30")))

	err := inv.ReversePayment("p1", d("31"))
	require.Error(t, err)
	assert.Equal(t, shared.CodeIntegrityViolation, shared.ErrorCode(err))
	assert.True(t, d("70").Equal(inv.Balance), "failed reversal must not change the balance")
	assert.Equal(t, StatusPartial, inv.Status)
}

func TestInvoice_Void(t *testing.T) {
	inv := newTestInvoice(t, "100")
	require.NoError(t, inv.Void("duplicate"))
	assert.True(t, inv.IsVoid)
	assert.NotNil(t, inv.VoidedAt)
	assert.True(t, decimal.Zero.Equal(inv.Outstanding()))

	assert.Equal(t, shared.CodeInvalidState, shared.ErrorCode(inv.Void("again")))
	assert.Equal(t, shared.CodeInvalidState, shared.ErrorCode(inv.ApplyPayment("p", d("1"))))
	assert.Equal(t, shared.CodeInvalidState, shared.ErrorCode(inv.ReversePayment("p", d("1"))))
}

func TestInvoice_ApplyReverseRoundTrip(t *testing.T) {
	f := gofakeit.New(7)

	for round := 0; round < 50; round++ {
		inv := newTestInvoice(t, "1000")
		var applied []decimal.Decimal
		for n := f.Number(1, 8); n > 0; n-- {
			amt := decimal.NewFromInt(int64(f.Number(1, 40000))).Shift(-2)
			if inv.Balance.LessThan(amt) {
				break
			}
			require.NoError(t, inv.ApplyPayment("p", amt))
			applied = append(applied, amt)
			require.NoError(t, inv.CheckInvariants())
		}
		for i := len(applied) - 1; i >= 0; i-- {
			require.NoError(t, inv.ReversePayment("p", applied[i]))
			require.NoError(t, inv.CheckInvariants())
		}
		assert.True(t, d("1000").Equal(inv.Balance))
		assert.Equal(t, StatusUnpaid, inv.Status)
	}
}

func TestInput_Validate(t *testing.T) {
	base := Input{CustomerID: "c", Type: TypeRoyalty, Amount: d("10")}

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing customer", func(in *Input) { in.CustomerID = " " }},
		{"bad type", func(in *Input) { in.Type = "RENT" }},
		{"bad direction", func(in *Input) { in.Direction = "UP" }},
		{"interest out must be out", func(in *Input) { in.Type = TypeInterestOut; in.Direction = DirectionIn }},
		{"zero amount", func(in *Input) { in.Amount = decimal.Zero }},
		{"due before issue", func(in *Input) {
			in.IssueDate = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
			due := in.IssueDate.AddDate(0, 0, -1)
			in.DueDate = &due
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			assert.Equal(t, shared.CodeValidation, shared.ErrorCode(in.Validate()))
		})
	}

	assert.NoError(t, base.Validate())
}

func TestNewInvoice_Direction(t *testing.T) {
	inv, err := NewInvoice(Input{CustomerID: "c", Type: TypeInterestOut, Amount: d("5")}, "INV-2026-0002")
	require.NoError(t, err)
	assert.Equal(t, DirectionOut, inv.Direction)

	_, err = NewInvoice(Input{CustomerID: "c", Type: TypeChit, Amount: d("5")}, "2026-0002")
	assert.Equal(t, shared.CodeValidation, shared.ErrorCode(err))
}

func TestInvoice_Clone(t *testing.T) {
	inv := newTestInvoice(t, "100")
	c := inv.Clone()
	require.NoError(t, c.ApplyPayment("p", d("10")))
	assert.True(t, d("100").Equal(inv.Balance))
	assert.Equal(t, 1, inv.Version)
	assert.Len(t, c.GetDomainEvents(), 1)
	assert.Len(t, inv.GetDomainEvents(), 1)
}
