package models

import (
	"time"

	"github.com/finledger/backend/internal/domain/investment"
	"github.com/shopspring/decimal"
)

// InvestmentModel is the persistence model for the Investment aggregate.
// Transactions are append-mostly and stored inline as JSON.
type InvestmentModel struct {
	AggregateModel
	Name             string                      `gorm:"type:varchar(200);not null"`
	Category         investment.Category         `gorm:"type:varchar(32);not null"`
	ContributionType investment.ContributionType `gorm:"type:varchar(16);not null"`
	AmountInvested   decimal.Decimal             `gorm:"type:decimal(18,2);not null;default:0"`
	CurrentValue     *decimal.Decimal            `gorm:"type:decimal(18,2)"`
	Transactions     investment.Transactions     `gorm:"type:jsonb"`
	ChitConfig       *investment.ChitConfig      `gorm:"type:jsonb"`
	StartDate        time.Time                   `gorm:"not null"`
	MaturityDate     *time.Time
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvestmentModel) TableName() string {
	return "investments"
}

// ToDomain converts the persistence model to a domain Investment aggregate.
func (m *InvestmentModel) ToDomain() *investment.Investment {
	txs := make(investment.Transactions, len(m.Transactions))
	copy(txs, m.Transactions)
	return &investment.Investment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Category:          m.Category,
		ContributionType:  m.ContributionType,
		AmountInvested:    m.AmountInvested,
		CurrentValue:      m.CurrentValue,
		Transactions:      txs,
		ChitConfig:        m.ChitConfig,
		StartDate:         m.StartDate,
		MaturityDate:      m.MaturityDate,
		Notes:             m.Notes,
	}
}

// InvestmentModelFromDomain creates a new persistence model from a domain Investment aggregate.
func InvestmentModelFromDomain(inv *investment.Investment) *InvestmentModel {
	m := &InvestmentModel{
		Name:             inv.Name,
		Category:         inv.Category,
		ContributionType: inv.ContributionType,
		AmountInvested:   inv.AmountInvested,
		CurrentValue:     inv.CurrentValue,
		Transactions:     inv.Transactions,
		ChitConfig:       inv.ChitConfig,
		StartDate:        inv.StartDate,
		MaturityDate:     inv.MaturityDate,
		Notes:            inv.Notes,
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	return m
}
