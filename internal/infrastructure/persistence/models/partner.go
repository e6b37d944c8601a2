package models

import (
	"time"

	"github.com/finledger/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	Name              string                 `gorm:"type:varchar(200);not null"`
	Phone             string                 `gorm:"type:varchar(50);index"`
	Address           string                 `gorm:"type:text"`
	IsRoyalty         bool                   `gorm:"not null;default:false"`
	IsInterest        bool                   `gorm:"not null;default:false"`
	IsChit            bool                   `gorm:"not null;default:false"`
	IsGeneral         bool                   `gorm:"not null;default:false"`
	IsLender          bool                   `gorm:"not null;default:false"`
	RoyaltyAmount     decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	InterestPrincipal decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	CreditPrincipal   decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	OpeningBalance    decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	InterestRate      decimal.Decimal        `gorm:"type:decimal(5,2);not null;default:0"`
	Status            partner.CustomerStatus `gorm:"type:varchar(16);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Portfolio: partner.Portfolio{
			IsRoyalty:  m.IsRoyalty,
			IsInterest: m.IsInterest,
			IsChit:     m.IsChit,
			IsGeneral:  m.IsGeneral,
			IsLender:   m.IsLender,
		},
		Name:              m.Name,
		Phone:             m.Phone,
		Address:           m.Address,
		RoyaltyAmount:     m.RoyaltyAmount,
		InterestPrincipal: m.InterestPrincipal,
		CreditPrincipal:   m.CreditPrincipal,
		OpeningBalance:    m.OpeningBalance,
		InterestRate:      m.InterestRate,
		Status:            m.Status,
	}
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:              c.Name,
		Phone:             c.Phone,
		Address:           c.Address,
		IsRoyalty:         c.IsRoyalty,
		IsInterest:        c.IsInterest,
		IsChit:            c.IsChit,
		IsGeneral:         c.IsGeneral,
		IsLender:          c.IsLender,
		RoyaltyAmount:     c.RoyaltyAmount,
		InterestPrincipal: c.InterestPrincipal,
		CreditPrincipal:   c.CreditPrincipal,
		OpeningBalance:    c.OpeningBalance,
		InterestRate:      c.InterestRate,
		Status:            c.Status,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// LiabilityModel is the persistence model for the Liability domain entity.
type LiabilityModel struct {
	AggregateModel
	LenderID         string                  `gorm:"type:varchar(64);index"`
	Name             string                  `gorm:"type:varchar(200);not null"`
	Principal        decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	RemainingBalance decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	InterestRate     decimal.Decimal         `gorm:"type:decimal(5,2);not null;default:0"`
	Status           partner.LiabilityStatus `gorm:"type:varchar(16);not null"`
	StartDate        time.Time               `gorm:"not null"`
	ClosedAt         *time.Time
}

// TableName returns the table name for GORM
func (LiabilityModel) TableName() string {
	return "liabilities"
}

// ToDomain converts the persistence model to a domain Liability entity.
func (m *LiabilityModel) ToDomain() *partner.Liability {
	return &partner.Liability{
		BaseAggregateRoot: m.ToAggregateRoot(),
		LenderID:          m.LenderID,
		Name:              m.Name,
		Principal:         m.Principal,
		RemainingBalance:  m.RemainingBalance,
		InterestRate:      m.InterestRate,
		Status:            m.Status,
		StartDate:         m.StartDate,
		ClosedAt:          m.ClosedAt,
	}
}

// LiabilityModelFromDomain creates a new persistence model from a domain Liability entity.
func LiabilityModelFromDomain(l *partner.Liability) *LiabilityModel {
	m := &LiabilityModel{
		LenderID:         l.LenderID,
		Name:             l.Name,
		Principal:        l.Principal,
		RemainingBalance: l.RemainingBalance,
		InterestRate:     l.InterestRate,
		Status:           l.Status,
		StartDate:        l.StartDate,
		ClosedAt:         l.ClosedAt,
	}
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	return m
}
