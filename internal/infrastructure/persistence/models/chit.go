package models

import (
	"slices"
	"time"

	"github.com/finledger/backend/internal/domain/chit"
	"github.com/shopspring/decimal"
)

// ChitGroupModel is the persistence model for the ChitGroup aggregate.
// Auctions are owned by the group and stored with it, so a month advance
// is a single versioned row update.
type ChitGroupModel struct {
	AggregateModel
	Name                 string                   `gorm:"type:varchar(200);not null"`
	TotalValue           decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	DurationMonths       int                      `gorm:"not null"`
	MonthlyInstallment   decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	CommissionPercentage decimal.Decimal          `gorm:"type:decimal(5,2);not null"`
	CurrentMonth         int                      `gorm:"not null;default:0"`
	Members              chit.Members             `gorm:"type:jsonb"`
	Auctions             JSON[[]chit.ChitAuction] `gorm:"type:jsonb"`
	Status               chit.GroupStatus         `gorm:"type:varchar(16);not null"`
	StartDate            time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChitGroupModel) TableName() string {
	return "chit_groups"
}

// ToDomain converts the persistence model to a domain ChitGroup aggregate.
func (m *ChitGroupModel) ToDomain() *chit.ChitGroup {
	return &chit.ChitGroup{
		BaseAggregateRoot:    m.ToAggregateRoot(),
		Name:                 m.Name,
		TotalValue:           m.TotalValue,
		DurationMonths:       m.DurationMonths,
		MonthlyInstallment:   m.MonthlyInstallment,
		CommissionPercentage: m.CommissionPercentage,
		CurrentMonth:         m.CurrentMonth,
		Members:              slices.Clone(m.Members),
		Auctions:             slices.Clone(m.Auctions.Data),
		Status:               m.Status,
		StartDate:            m.StartDate,
	}
}

// ChitGroupModelFromDomain creates a new persistence model from a domain ChitGroup aggregate.
func ChitGroupModelFromDomain(g *chit.ChitGroup) *ChitGroupModel {
	auctions := g.Auctions
	if auctions == nil {
		auctions = []chit.ChitAuction{}
	}
	m := &ChitGroupModel{
		Name:                 g.Name,
		TotalValue:           g.TotalValue,
		DurationMonths:       g.DurationMonths,
		MonthlyInstallment:   g.MonthlyInstallment,
		CommissionPercentage: g.CommissionPercentage,
		CurrentMonth:         g.CurrentMonth,
		Members:              g.Members,
		Auctions:             NewJSON(auctions),
		Status:               g.Status,
		StartDate:            g.StartDate,
	}
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	return m
}
