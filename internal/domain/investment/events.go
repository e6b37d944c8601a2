package investment

import (
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EventTypeContributionRecorded is raised when a contribution is appended
const EventTypeContributionRecorded = "ContributionRecorded"

// ContributionRecordedEvent is raised when a contribution is appended
type ContributionRecordedEvent struct {
	shared.BaseDomainEvent
	InvestmentID  string          `json:"investment_id"`
	TransactionID string          `json:"transaction_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Dividend      decimal.Decimal `json:"dividend"`
	PaymentID     string          `json:"payment_id,omitempty"`
	TotalInvested decimal.Decimal `json:"total_invested"`
}

// NewContributionRecordedEvent creates a new ContributionRecordedEvent
func NewContributionRecordedEvent(inv *Investment, tx *Transaction) *ContributionRecordedEvent {
	return &ContributionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContributionRecorded, "Investment", inv.ID),
		InvestmentID:    inv.ID,
		TransactionID:   tx.ID,
		AmountPaid:      tx.AmountPaid,
		Dividend:        tx.Dividend,
		PaymentID:       tx.PaymentID,
		TotalInvested:   inv.TotalInvested(),
	}
}
