package ledger

import (
	"testing"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() (*AccountRegistry, *BankAccount, *BankAccount) {
	active, _ := NewBankAccount("Main", "HDFC", "001", decimal.NewFromInt(100))
	archived, _ := NewBankAccount("Old", "SBI", "002", decimal.Zero)
	_ = archived.Archive()
	return NewAccountRegistry([]BankAccount{*active, *archived}), active, archived
}

func TestNewPayment_Validation(t *testing.T) {
	reg, bank, _ := testRegistry()

	tests := []struct {
		name string
		in   PaymentInput
		code string
	}{
		{"invalid type", PaymentInput{Type: "SIDEWAYS", Mode: "CASH", Amount: d("1")}, shared.CodeValidation},
		{"zero amount", PaymentInput{Type: PaymentTypeIn, Mode: "CASH", Amount: decimal.Zero}, shared.CodeValidation},
		{"negative amount", PaymentInput{Type: PaymentTypeIn, Mode: "CASH", Amount: d("-5")}, shared.CodeValidation},
		{"missing mode", PaymentInput{Type: PaymentTypeIn, Amount: d("1")}, shared.CodeValidation},
		{"unknown account", PaymentInput{Type: PaymentTypeIn, Mode: "bank-x", Amount: d("1")}, shared.CodeDependencyNotFound},
		{"bad voucher", PaymentInput{Type: PaymentTypeIn, VoucherType: "IOU", Mode: "CASH", Amount: d("1")}, shared.CodeValidation},
		{"unknown category", PaymentInput{Type: PaymentTypeIn, Mode: "CASH", Amount: d("1"), Category: "GROCERIES"}, shared.CodeValidation},
		{"contra same account", PaymentInput{Type: PaymentTypeOut, VoucherType: VoucherContra, Mode: "CASH", TargetMode: "cash", Amount: d("1")}, shared.CodeValidation},
		{"contra missing target", PaymentInput{Type: PaymentTypeOut, VoucherType: VoucherContra, Mode: "CASH", Amount: d("1")}, shared.CodeValidation},
		{"target on receipt", PaymentInput{Type: PaymentTypeIn, Mode: "CASH", TargetMode: bank.ID, Amount: d("1")}, shared.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPayment(tt.in, reg)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Equal(t, tt.code, shared.ErrorCode(err))
		})
	}
}

func TestNewPayment_Defaults(t *testing.T) {
	reg, bank, _ := testRegistry()

	p, err := NewPayment(PaymentInput{Type: PaymentTypeIn, Mode: "cash", Amount: d("10")}, reg)
	require.NoError(t, err)
	assert.Equal(t, CashMode, p.Mode)
	assert.Equal(t, VoucherReceipt, p.VoucherType)
	assert.Equal(t, CategoryOther, p.Category)
	assert.False(t, p.Date.IsZero())
	assert.Equal(t, 1, p.Version)

	c, err := NewPayment(PaymentInput{Type: PaymentTypeOut, VoucherType: VoucherContra, Mode: "CASH", TargetMode: bank.ID, Amount: d("10"), Category: "custom:petty"}, reg)
	require.NoError(t, err)
	assert.Equal(t, bank.Mode(), c.TargetMode)
	assert.True(t, c.Category.IsCustom())
	assert.Equal(t, "petty", c.Category.Label())
}

func TestPayment_Revise(t *testing.T) {
	reg, _, _ := testRegistry()
	p, err := NewPayment(PaymentInput{Type: PaymentTypeIn, Mode: "CASH", Amount: d("10"), InvoiceID: "inv-1"}, reg)
	require.NoError(t, err)
	id := p.ID

	in := p.Input()
	in.Amount = d("25")
	require.NoError(t, p.Revise(in, reg))
	assert.Equal(t, id, p.ID)
	assert.Equal(t, 2, p.Version)
	assert.True(t, d("25").Equal(p.Amount))

	in.Amount = decimal.Zero
	assert.Error(t, p.Revise(in, reg))
	assert.Equal(t, 2, p.Version)
}

func TestPayment_SettlesInvoice(t *testing.T) {
	assert.True(t, (&Payment{Type: PaymentTypeIn, InvoiceID: "i"}).SettlesInvoice())
	assert.False(t, (&Payment{Type: PaymentTypeOut, InvoiceID: "i"}).SettlesInvoice())
	assert.False(t, (&Payment{Type: PaymentTypeIn}).SettlesInvoice())
}

func TestAccountRegistry(t *testing.T) {
	reg, bank, archived := testRegistry()

	assert.True(t, reg.Knows(CashMode))
	assert.True(t, reg.IsArchived(archived.Mode()))
	assert.False(t, reg.IsArchived(bank.Mode()))
	assert.Len(t, reg.Modes(), 3)
	assert.Equal(t, CashMode, reg.Modes()[0])
	assert.Equal(t, []AccountMode{CashMode, bank.Mode()}, reg.ActiveModes())
}

func TestBankAccount_Archive(t *testing.T) {
	a, err := NewBankAccount("Ops", "", "", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, a.Archive())
	assert.Equal(t, 2, a.Version)
	assert.Len(t, a.GetDomainEvents(), 1)

	err = a.Archive()
	assert.Equal(t, shared.CodeInvalidState, shared.ErrorCode(err))

	_, err = NewBankAccount("cash", "", "", decimal.Zero)
	assert.Equal(t, shared.CodeValidation, shared.ErrorCode(err))
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw     string
		want    Category
		wantErr bool
	}{
		{"", CategoryOther, false},
		{"sales", CategorySales, false},
		{"LOAN", CategoryLoan, false},
		{"CUSTOM:Festival", Category("CUSTOM:Festival"), false},
		{"custom:  ", "", true},
		{"Festival", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCategory(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
