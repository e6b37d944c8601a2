package chit

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GroupStatus is derived from month progress
type GroupStatus string

const (
	GroupStatusActive    GroupStatus = "ACTIVE"
	GroupStatusCompleted GroupStatus = "COMPLETED"
)

// Members is the ordered member list. An ID appears once per share held.
type Members []string

// Value implements driver.Valuer for JSONB storage
func (m Members) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage
func (m *Members) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = Members{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan Members: unsupported type")
	}
	if len(raw) == 0 {
		*m = Members{}
		return nil
	}
	return json.Unmarshal(raw, m)
}

// Shares returns how many shares memberID holds
func (m Members) Shares(memberID string) int {
	n := 0
	for _, id := range m {
		if id == memberID {
			n++
		}
	}
	return n
}

// ChitGroup is a rotating-credit pool. One auction is held per month;
// CurrentMonth equals the number of recorded auctions.
type ChitGroup struct {
	shared.BaseAggregateRoot
	Name                 string          `json:"name"`
	TotalValue           decimal.Decimal `json:"total_value"`
	DurationMonths       int             `json:"duration_months"`
	MonthlyInstallment   decimal.Decimal `json:"monthly_installment"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	CurrentMonth         int             `json:"current_month"`
	Members              Members         `json:"members"`
	Auctions             []ChitAuction   `json:"auctions"`
	Status               GroupStatus     `json:"status"`
	StartDate            time.Time       `json:"start_date"`
}

// GroupInput carries the caller-controlled fields of a new group
type GroupInput struct {
	Name                 string
	TotalValue           decimal.Decimal
	DurationMonths       int
	MonthlyInstallment   decimal.Decimal
	CommissionPercentage decimal.Decimal
	Members              []string
	StartDate            time.Time
}

// NewChitGroup creates a group at month 0
func NewChitGroup(in GroupInput) (*ChitGroup, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, shared.NewValidationError("chit group name cannot be empty")
	}
	if !in.TotalValue.IsPositive() {
		return nil, shared.NewValidationError("chit total value must be positive")
	}
	if in.DurationMonths <= 0 {
		return nil, shared.NewValidationError("chit duration must be at least one month")
	}
	if in.MonthlyInstallment.IsNegative() {
		return nil, shared.NewValidationError("monthly installment cannot be negative")
	}
	if err := validatePercentage(in.CommissionPercentage); err != nil {
		return nil, err
	}
	for _, id := range in.Members {
		if strings.TrimSpace(id) == "" {
			return nil, shared.NewValidationError("chit member ID cannot be empty")
		}
	}
	start := in.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	return &ChitGroup{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		Name:                 in.Name,
		TotalValue:           in.TotalValue,
		DurationMonths:       in.DurationMonths,
		MonthlyInstallment:   in.MonthlyInstallment,
		CommissionPercentage: in.CommissionPercentage,
		Members:              append(Members{}, in.Members...),
		Auctions:             []ChitAuction{},
		Status:               GroupStatusActive,
		StartDate:            start,
	}, nil
}

func validatePercentage(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return shared.NewValidationError("commission percentage %s must be between 0 and 100", p.String())
	}
	return nil
}

// ComputeCommission returns totalValue × percentage ÷ 100
func ComputeCommission(totalValue, percentage decimal.Decimal) decimal.Decimal {
	return totalValue.Mul(percentage).Div(hundred)
}

// CommissionAmount is the foreman's commission per auction
func (g *ChitGroup) CommissionAmount() decimal.Decimal {
	return ComputeCommission(g.TotalValue, g.CommissionPercentage)
}

// IsCompleted returns true once every month has been auctioned
func (g *ChitGroup) IsCompleted() bool {
	return g.CurrentMonth >= g.DurationMonths
}

// NextMonth is the only month an auction may be recorded for
func (g *ChitGroup) NextMonth() int {
	return g.CurrentMonth + 1
}

// LastAuction returns the most recent auction, or nil
func (g *ChitGroup) LastAuction() *ChitAuction {
	if len(g.Auctions) == 0 {
		return nil
	}
	return &g.Auctions[len(g.Auctions)-1]
}

// FindAuction looks up an auction by ID
func (g *ChitGroup) FindAuction(auctionID string) (*ChitAuction, bool) {
	for i := range g.Auctions {
		if g.Auctions[i].ID == auctionID {
			return &g.Auctions[i], true
		}
	}
	return nil, false
}

// RecordAuction appends the auction for the next month and advances
// CurrentMonth by one in the same step.
func (g *ChitGroup) RecordAuction(in AuctionInput) (*ChitAuction, error) {
	if g.IsCompleted() {
		return nil, shared.NewInvalidState("chit group %s is completed", g.Name)
	}
	if in.Month < 0 {
		return nil, shared.NewValidationError("auction month cannot be negative, got %d", in.Month)
	}
	month := in.Month
	if month == 0 {
		month = g.NextMonth()
	}
	switch {
	case month <= g.CurrentMonth:
		return nil, shared.NewSequenceConflict("chit group %s already has an auction for month %d",
			g.Name, month)
	case month > g.NextMonth():
		return nil, shared.NewValidationError("chit group %s expects an auction for month %d, got %d",
			g.Name, g.NextMonth(), month)
	}
	if in.BidAmount.IsNegative() || in.BidAmount.GreaterThan(g.TotalValue) {
		return nil, shared.NewValidationError("bid amount %s must be between 0 and total value %s",
			in.BidAmount.String(), g.TotalValue.String())
	}
	if in.DividendPerMember.IsNegative() {
		return nil, shared.NewValidationError("dividend per member cannot be negative")
	}
	if strings.TrimSpace(in.WinnerID) == "" {
		return nil, shared.NewValidationError("auction winner is required")
	}
	if len(g.Members) > 0 {
		shares := g.Members.Shares(in.WinnerID)
		if shares == 0 {
			return nil, shared.NewValidationError("winner %s is not a member of chit group %s", in.WinnerID, g.Name)
		}
		if g.wins(in.WinnerID) >= shares {
			return nil, shared.NewValidationError("winner %s has already won with every share held", in.WinnerID)
		}
	}

	commission := g.CommissionAmount()
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	auction := ChitAuction{
		ID:                AuctionID(g.ID, month),
		Month:             month,
		WinnerID:          in.WinnerID,
		BidAmount:         in.BidAmount,
		CommissionAmount:  commission,
		WinnerHand:        g.TotalValue.Sub(in.BidAmount).Sub(commission),
		Surplus:           in.BidAmount.Sub(commission),
		DividendPerMember: in.DividendPerMember,
		Date:              date,
	}

	g.Auctions = append(g.Auctions, auction)
	g.CurrentMonth = month
	g.refreshStatus()
	g.IncrementVersion()
	g.AddDomainEvent(NewAuctionRecordedEvent(g, &auction))
	if g.Status == GroupStatusCompleted {
		g.AddDomainEvent(NewChitGroupCompletedEvent(g))
	}
	return &g.Auctions[len(g.Auctions)-1], nil
}

// DeleteAuction removes the most recent auction and steps CurrentMonth back.
// Any earlier auction is refused because removing it would leave a gap.
func (g *ChitGroup) DeleteAuction(auctionID string) (*ChitAuction, error) {
	target, ok := g.FindAuction(auctionID)
	if !ok {
		return nil, shared.NewDependencyNotFound("chit auction", auctionID)
	}
	last := g.LastAuction()
	if target.ID != last.ID {
		return nil, shared.NewIntegrityViolation(
			"auction for month %d cannot be deleted: month %d is the most recent auction of chit group %s",
			target.Month, last.Month, g.Name)
	}

	removed := *last
	g.Auctions = g.Auctions[:len(g.Auctions)-1]
	g.CurrentMonth = removed.Month - 1
	g.refreshStatus()
	g.IncrementVersion()
	g.AddDomainEvent(NewAuctionDeletedEvent(g, &removed))
	return &removed, nil
}

func (g *ChitGroup) wins(memberID string) int {
	n := 0
	for i := range g.Auctions {
		if g.Auctions[i].WinnerID == memberID {
			n++
		}
	}
	return n
}

func (g *ChitGroup) refreshStatus() {
	if g.IsCompleted() {
		g.Status = GroupStatusCompleted
	} else {
		g.Status = GroupStatusActive
	}
}

// CheckInvariants verifies month bounds and that auction months are exactly 1..CurrentMonth
func (g *ChitGroup) CheckInvariants() error {
	if g.CurrentMonth < 0 || g.CurrentMonth > g.DurationMonths {
		return shared.NewIntegrityViolation("chit group %s current month %d outside [0, %d]",
			g.Name, g.CurrentMonth, g.DurationMonths)
	}
	if len(g.Auctions) != g.CurrentMonth {
		return shared.NewIntegrityViolation("chit group %s has %d auctions at month %d",
			g.Name, len(g.Auctions), g.CurrentMonth)
	}
	for i := range g.Auctions {
		if g.Auctions[i].Month != i+1 {
			return shared.NewIntegrityViolation("chit group %s auction %d has month %d",
				g.Name, i+1, g.Auctions[i].Month)
		}
	}
	return nil
}

// Clone returns a deep copy that can be mutated independently
func (g *ChitGroup) Clone() *ChitGroup {
	c := *g
	c.Members = append(Members{}, g.Members...)
	c.Auctions = append([]ChitAuction{}, g.Auctions...)
	c.ClearDomainEvents()
	return &c
}

// AuctionID is the stable identifier of a group's auction for a month
func AuctionID(groupID string, month int) string {
	return fmt.Sprintf("%s-M%03d", groupID, month)
}
