package chit

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChitAuction is the outcome of one month's auction
type ChitAuction struct {
	ID                string          `json:"id"`
	Month             int             `json:"month"`
	WinnerID          string          `json:"winner_id"`
	BidAmount         decimal.Decimal `json:"bid_amount"`
	CommissionAmount  decimal.Decimal `json:"commission_amount"`
	WinnerHand        decimal.Decimal `json:"winner_hand"`
	Surplus           decimal.Decimal `json:"surplus"`
	DividendPerMember decimal.Decimal `json:"dividend_per_member"`
	Date              time.Time       `json:"date"`
}

// AuctionInput is a request to record an auction.
// DividendPerMember is business policy and is stored as given.
type AuctionInput struct {
	Month             int
	WinnerID          string
	BidAmount         decimal.Decimal
	DividendPerMember decimal.Decimal
	Date              time.Time
}

// ChitState is the derived view of a group
type ChitState struct {
	GroupID           string          `json:"group_id"`
	CurrentMonth      int             `json:"current_month"`
	DurationMonths    int             `json:"duration_months"`
	RemainingMonths   int             `json:"remaining_months"`
	NextAuctionMonth  int             `json:"next_auction_month,omitempty"`
	Status            GroupStatus     `json:"status"`
	AuctionCount      int             `json:"auction_count"`
	TotalCommission   decimal.Decimal `json:"total_commission"`
	TotalPaidOut      decimal.Decimal `json:"total_paid_out"`
	TotalDividend     decimal.Decimal `json:"total_dividend_per_member"`
	MemberCount       int             `json:"member_count"`
	LastWinnerID      string          `json:"last_winner_id,omitempty"`
	CommissionPerTurn decimal.Decimal `json:"commission_per_auction"`
}

// ComputeChitState derives the group's state from its auctions
func ComputeChitState(g *ChitGroup) ChitState {
	st := ChitState{
		GroupID:           g.ID,
		CurrentMonth:      g.CurrentMonth,
		DurationMonths:    g.DurationMonths,
		RemainingMonths:   g.DurationMonths - g.CurrentMonth,
		Status:            GroupStatusActive,
		AuctionCount:      len(g.Auctions),
		TotalCommission:   decimal.Zero,
		TotalPaidOut:      decimal.Zero,
		TotalDividend:     decimal.Zero,
		MemberCount:       len(g.Members),
		CommissionPerTurn: g.CommissionAmount(),
	}
	if st.RemainingMonths < 0 {
		st.RemainingMonths = 0
	}
	if g.IsCompleted() {
		st.Status = GroupStatusCompleted
	} else {
		st.NextAuctionMonth = g.NextMonth()
	}
	for i := range g.Auctions {
		a := &g.Auctions[i]
		st.TotalCommission = st.TotalCommission.Add(a.CommissionAmount)
		st.TotalPaidOut = st.TotalPaidOut.Add(a.WinnerHand)
		st.TotalDividend = st.TotalDividend.Add(a.DividendPerMember)
	}
	if last := g.LastAuction(); last != nil {
		st.LastWinnerID = last.WinnerID
	}
	return st
}
