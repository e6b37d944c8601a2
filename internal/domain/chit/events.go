package chit

import (
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeChitGroup is the aggregate type for chit events
const AggregateTypeChitGroup = "ChitGroup"

const (
	EventTypeAuctionRecorded    = "AuctionRecorded"
	EventTypeAuctionDeleted     = "AuctionDeleted"
	EventTypeChitGroupCompleted = "ChitGroupCompleted"
)

// AuctionRecordedEvent is raised when a month's auction is recorded
type AuctionRecordedEvent struct {
	shared.BaseDomainEvent
	GroupID    string          `json:"group_id"`
	AuctionID  string          `json:"auction_id"`
	Month      int             `json:"month"`
	WinnerID   string          `json:"winner_id"`
	BidAmount  decimal.Decimal `json:"bid_amount"`
	WinnerHand decimal.Decimal `json:"winner_hand"`
}

// NewAuctionRecordedEvent creates a new AuctionRecordedEvent
func NewAuctionRecordedEvent(g *ChitGroup, a *ChitAuction) *AuctionRecordedEvent {
	return &AuctionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAuctionRecorded, AggregateTypeChitGroup, g.ID),
		GroupID:         g.ID,
		AuctionID:       a.ID,
		Month:           a.Month,
		WinnerID:        a.WinnerID,
		BidAmount:       a.BidAmount,
		WinnerHand:      a.WinnerHand,
	}
}

// AuctionDeletedEvent is raised when the last auction is removed
type AuctionDeletedEvent struct {
	shared.BaseDomainEvent
	GroupID   string `json:"group_id"`
	AuctionID string `json:"auction_id"`
	Month     int    `json:"month"`
}

// NewAuctionDeletedEvent creates a new AuctionDeletedEvent
func NewAuctionDeletedEvent(g *ChitGroup, a *ChitAuction) *AuctionDeletedEvent {
	return &AuctionDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAuctionDeleted, AggregateTypeChitGroup, g.ID),
		GroupID:         g.ID,
		AuctionID:       a.ID,
		Month:           a.Month,
	}
}

// ChitGroupCompletedEvent is raised when the final month is auctioned
type ChitGroupCompletedEvent struct {
	shared.BaseDomainEvent
	GroupID        string `json:"group_id"`
	DurationMonths int    `json:"duration_months"`
}

// NewChitGroupCompletedEvent creates a new ChitGroupCompletedEvent
func NewChitGroupCompletedEvent(g *ChitGroup) *ChitGroupCompletedEvent {
	return &ChitGroupCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChitGroupCompleted, AggregateTypeChitGroup, g.ID),
		GroupID:         g.ID,
		DurationMonths:  g.DurationMonths,
	}
}
