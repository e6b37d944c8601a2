package models

import (
	"time"

	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice domain entity.
// The unique index on invoice_number backs sequence allocation: a second
// writer racing for the same number fails instead of duplicating it.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber    string            `gorm:"type:varchar(32);not null;uniqueIndex:idx_invoice_number"`
	CustomerID       string            `gorm:"type:varchar(64);not null;index"`
	Type             invoice.Type      `gorm:"type:varchar(16);not null"`
	Direction        invoice.Direction `gorm:"type:varchar(8);not null"`
	Amount           decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Balance          decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Status           invoice.Status    `gorm:"type:varchar(16);not null;index"`
	IsVoid           bool              `gorm:"not null;default:false"`
	VoidReason       string            `gorm:"type:text"`
	VoidedAt         *time.Time
	RelatedAuctionID string    `gorm:"type:varchar(128);index"`
	IssueDate        time.Time `gorm:"not null"`
	DueDate          *time.Time
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	return &invoice.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		CustomerID:        m.CustomerID,
		Type:              m.Type,
		Direction:         m.Direction,
		Amount:            m.Amount,
		Balance:           m.Balance,
		Status:            m.Status,
		IsVoid:            m.IsVoid,
		VoidReason:        m.VoidReason,
		VoidedAt:          m.VoidedAt,
		RelatedAuctionID:  m.RelatedAuctionID,
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		Notes:             m.Notes,
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(i *invoice.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber:    i.InvoiceNumber,
		CustomerID:       i.CustomerID,
		Type:             i.Type,
		Direction:        i.Direction,
		Amount:           i.Amount,
		Balance:          i.Balance,
		Status:           i.Status,
		IsVoid:           i.IsVoid,
		VoidReason:       i.VoidReason,
		VoidedAt:         i.VoidedAt,
		RelatedAuctionID: i.RelatedAuctionID,
		IssueDate:        i.IssueDate,
		DueDate:          i.DueDate,
		Notes:            i.Notes,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}
