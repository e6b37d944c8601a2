package models

import (
	"time"

	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment domain entity.
type PaymentModel struct {
	AggregateModel
	Type             ledger.PaymentType `gorm:"type:varchar(8);not null"`
	VoucherType      ledger.VoucherType `gorm:"type:varchar(16);not null"`
	Mode             ledger.AccountMode `gorm:"type:varchar(64);not null;index"`
	TargetMode       ledger.AccountMode `gorm:"type:varchar(64)"`
	Amount           decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	SourceID         string             `gorm:"type:varchar(64);index"`
	Category         ledger.Category    `gorm:"type:varchar(100);not null"`
	InvoiceID        string             `gorm:"type:varchar(64);index"`
	RelatedAuctionID string             `gorm:"type:varchar(128);index"`
	Date             time.Time          `gorm:"not null;index"`
	Notes            string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *ledger.Payment {
	return &ledger.Payment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Type:              m.Type,
		VoucherType:       m.VoucherType,
		Mode:              m.Mode,
		TargetMode:        m.TargetMode,
		Amount:            m.Amount,
		SourceID:          m.SourceID,
		Category:          m.Category,
		InvoiceID:         m.InvoiceID,
		RelatedAuctionID:  m.RelatedAuctionID,
		Date:              m.Date,
		Notes:             m.Notes,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{
		Type:             p.Type,
		VoucherType:      p.VoucherType,
		Mode:             p.Mode,
		TargetMode:       p.TargetMode,
		Amount:           p.Amount,
		SourceID:         p.SourceID,
		Category:         p.Category,
		InvoiceID:        p.InvoiceID,
		RelatedAuctionID: p.RelatedAuctionID,
		Date:             p.Date,
		Notes:            p.Notes,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// BankAccountModel is the persistence model for the BankAccount domain entity.
type BankAccountModel struct {
	AggregateModel
	Name           string               `gorm:"type:varchar(200);not null"`
	BankName       string               `gorm:"type:varchar(200)"`
	AccountNumber  string               `gorm:"type:varchar(64)"`
	OpeningBalance decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Status         ledger.AccountStatus `gorm:"type:varchar(16);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts the persistence model to a domain BankAccount entity.
func (m *BankAccountModel) ToDomain() *ledger.BankAccount {
	return &ledger.BankAccount{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		BankName:          m.BankName,
		AccountNumber:     m.AccountNumber,
		OpeningBalance:    m.OpeningBalance,
		Status:            m.Status,
	}
}

// BankAccountModelFromDomain creates a new persistence model from a domain BankAccount entity.
func BankAccountModelFromDomain(a *ledger.BankAccount) *BankAccountModel {
	m := &BankAccountModel{
		Name:           a.Name,
		BankName:       a.BankName,
		AccountNumber:  a.AccountNumber,
		OpeningBalance: a.OpeningBalance,
		Status:         a.Status,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

// OpeningBalanceModel stores the opening balance of the implicit CASH account.
// Bank accounts keep theirs on the account row.
type OpeningBalanceModel struct {
	Mode      ledger.AccountMode `gorm:"type:varchar(64);primaryKey"`
	Amount    decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	UpdatedAt time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OpeningBalanceModel) TableName() string {
	return "opening_balances"
}

// ToDomain converts the persistence model to a domain OpeningBalance.
func (m *OpeningBalanceModel) ToDomain() *ledger.OpeningBalance {
	return &ledger.OpeningBalance{Mode: m.Mode, Amount: m.Amount}
}

// OpeningBalanceModelFromDomain creates a new persistence model from a domain OpeningBalance.
func OpeningBalanceModelFromDomain(ob *ledger.OpeningBalance) *OpeningBalanceModel {
	return &OpeningBalanceModel{Mode: ob.Mode, Amount: ob.Amount, UpdatedAt: time.Now()}
}
