package dto

import (
	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/reconcile"
	"github.com/shopspring/decimal"
)

// PaymentRequest records or edits a voucher
type PaymentRequest struct {
	Type             string          `json:"type" binding:"required,oneof=IN OUT"`
	VoucherType      string          `json:"voucher_type" binding:"omitempty,oneof=RECEIPT PAYMENT CONTRA JOURNAL"`
	Mode             string          `json:"mode" binding:"required,max=64"`
	TargetMode       string          `json:"target_mode" binding:"omitempty,max=64"`
	Amount           decimal.Decimal `json:"amount"`
	SourceID         string          `json:"source_id" binding:"omitempty,max=64"`
	Category         string          `json:"category" binding:"omitempty,max=64"`
	InvoiceID        string          `json:"invoice_id" binding:"omitempty,max=64"`
	RelatedAuctionID string          `json:"related_auction_id" binding:"omitempty,max=64"`
	Date             Date            `json:"date"`
	Notes            string          `json:"notes" binding:"max=500"`
}

// ToInput converts the request into a ledger.PaymentInput
func (r PaymentRequest) ToInput() ledger.PaymentInput {
	return ledger.PaymentInput{
		Type:             ledger.PaymentType(r.Type),
		VoucherType:      ledger.VoucherType(r.VoucherType),
		Mode:             r.Mode,
		TargetMode:       r.TargetMode,
		Amount:           r.Amount,
		SourceID:         r.SourceID,
		Category:         r.Category,
		InvoiceID:        r.InvoiceID,
		RelatedAuctionID: r.RelatedAuctionID,
		Date:             r.Date.OrNow(),
		Notes:            r.Notes,
	}
}

// InvoiceRequest issues an invoice
type InvoiceRequest struct {
	CustomerID       string          `json:"customer_id" binding:"required,max=64"`
	Type             string          `json:"type" binding:"required,oneof=ROYALTY INTEREST CHIT INTEREST_OUT"`
	Direction        string          `json:"direction" binding:"required,oneof=IN OUT"`
	Amount           decimal.Decimal `json:"amount"`
	RelatedAuctionID string          `json:"related_auction_id" binding:"omitempty,max=64"`
	IssueDate        Date            `json:"issue_date"`
	DueDate          *Date           `json:"due_date"`
	Notes            string          `json:"notes" binding:"max=500"`
}

// ToInput converts the request into an invoice.Input
func (r InvoiceRequest) ToInput() invoice.Input {
	return invoice.Input{
		CustomerID:       r.CustomerID,
		Type:             invoice.Type(r.Type),
		Direction:        invoice.Direction(r.Direction),
		Amount:           r.Amount,
		RelatedAuctionID: r.RelatedAuctionID,
		IssueDate:        r.IssueDate.OrNow(),
		DueDate:          r.DueDate.Ptr(),
		Notes:            r.Notes,
	}
}

// BulkInvoicesRequest issues many invoices
type BulkInvoicesRequest struct {
	Invoices []InvoiceRequest `json:"invoices" binding:"required,min=1,dive"`
}

// ToInputs converts every invoice of the request
func (r BulkInvoicesRequest) ToInputs() []invoice.Input {
	out := make([]invoice.Input, len(r.Invoices))
	for i, in := range r.Invoices {
		out[i] = in.ToInput()
	}
	return out
}

// BulkDeleteRequest names the entities to remove
type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required,max=64"`
}

// VoidInvoiceRequest freezes an invoice
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// AuctionRequest records a chit auction
type AuctionRequest struct {
	Month             int             `json:"month" binding:"required,min=1"`
	WinnerID          string          `json:"winner_id" binding:"required,max=64"`
	BidAmount         decimal.Decimal `json:"bid_amount"`
	DividendPerMember decimal.Decimal `json:"dividend_per_member"`
	Date              Date            `json:"date"`
	CommissionInvoice bool            `json:"commission_invoice"`
	PayoutInvoice     bool            `json:"payout_invoice"`
}

// ToRequest converts the request into a reconcile.AuctionRequest
func (r AuctionRequest) ToRequest() reconcile.AuctionRequest {
	return reconcile.AuctionRequest{
		AuctionInput: chit.AuctionInput{
			Month:             r.Month,
			WinnerID:          r.WinnerID,
			BidAmount:         r.BidAmount,
			DividendPerMember: r.DividendPerMember,
			Date:              r.Date.OrNow(),
		},
		CommissionInvoice: r.CommissionInvoice,
		PayoutInvoice:     r.PayoutInvoice,
	}
}

// ContributionRequest appends a contribution to an investment
type ContributionRequest struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Dividend   decimal.Decimal `json:"dividend"`
	Month      int             `json:"month" binding:"min=0"`
	PaymentID  string          `json:"payment_id" binding:"omitempty,max=64"`
	Date       Date            `json:"date"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// ToInput converts the request into an investment.ContributionInput
func (r ContributionRequest) ToInput() investment.ContributionInput {
	return investment.ContributionInput{
		AmountPaid: r.AmountPaid,
		Dividend:   r.Dividend,
		Month:      r.Month,
		PaymentID:  r.PaymentID,
		Date:       r.Date.OrNow(),
		Notes:      r.Notes,
	}
}

// CustomerRequest registers a customer
type CustomerRequest struct {
	Name              string          `json:"name" binding:"required,max=200"`
	Phone             string          `json:"phone" binding:"max=32"`
	Address           string          `json:"address" binding:"max=500"`
	IsRoyalty         bool            `json:"is_royalty"`
	IsInterest        bool            `json:"is_interest"`
	IsChit            bool            `json:"is_chit"`
	IsGeneral         bool            `json:"is_general"`
	IsLender          bool            `json:"is_lender"`
	RoyaltyAmount     decimal.Decimal `json:"royalty_amount"`
	InterestPrincipal decimal.Decimal `json:"interest_principal"`
	CreditPrincipal   decimal.Decimal `json:"credit_principal"`
	OpeningBalance    decimal.Decimal `json:"opening_balance"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
}

// ToInput converts the request into a partner.CustomerInput
func (r CustomerRequest) ToInput() partner.CustomerInput {
	return partner.CustomerInput{
		Portfolio: partner.Portfolio{
			IsRoyalty:  r.IsRoyalty,
			IsInterest: r.IsInterest,
			IsChit:     r.IsChit,
			IsGeneral:  r.IsGeneral,
			IsLender:   r.IsLender,
		},
		Name:              r.Name,
		Phone:             r.Phone,
		Address:           r.Address,
		RoyaltyAmount:     r.RoyaltyAmount,
		InterestPrincipal: r.InterestPrincipal,
		CreditPrincipal:   r.CreditPrincipal,
		OpeningBalance:    r.OpeningBalance,
		InterestRate:      r.InterestRate,
	}
}

// BankAccountRequest registers a bank account
type BankAccountRequest struct {
	Name           string          `json:"name" binding:"required,max=200"`
	BankName       string          `json:"bank_name" binding:"max=200"`
	AccountNumber  string          `json:"account_number" binding:"max=64"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToInput converts the request into a reconcile.BankAccountInput
func (r BankAccountRequest) ToInput() reconcile.BankAccountInput {
	return reconcile.BankAccountInput{
		Name:           r.Name,
		BankName:       r.BankName,
		AccountNumber:  r.AccountNumber,
		OpeningBalance: r.OpeningBalance,
	}
}

// OpeningBalanceRequest sets an account's opening balance
type OpeningBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ChitGroupRequest registers a chit group
type ChitGroupRequest struct {
	Name                 string          `json:"name" binding:"required,max=200"`
	TotalValue           decimal.Decimal `json:"total_value"`
	DurationMonths       int             `json:"duration_months" binding:"required,min=1,max=600"`
	MonthlyInstallment   decimal.Decimal `json:"monthly_installment"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	Members              []string        `json:"members" binding:"dive,required,max=64"`
	StartDate            Date            `json:"start_date"`
}

// ToInput converts the request into a chit.GroupInput
func (r ChitGroupRequest) ToInput() chit.GroupInput {
	return chit.GroupInput{
		Name:                 r.Name,
		TotalValue:           r.TotalValue,
		DurationMonths:       r.DurationMonths,
		MonthlyInstallment:   r.MonthlyInstallment,
		CommissionPercentage: r.CommissionPercentage,
		Members:              r.Members,
		StartDate:            r.StartDate.OrNow(),
	}
}

// ChitConfigRequest describes the chit behind a chit-savings investment
type ChitConfigRequest struct {
	GroupName          string          `json:"group_name" binding:"required,max=200"`
	Organizer          string          `json:"organizer" binding:"max=200"`
	TotalValue         decimal.Decimal `json:"total_value"`
	DurationMonths     int             `json:"duration_months" binding:"required,min=1,max=600"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	StartDate          Date            `json:"start_date"`
}

// InvestmentRequest registers an investment
type InvestmentRequest struct {
	Name             string             `json:"name" binding:"required,max=200"`
	Category         string             `json:"category" binding:"omitempty,oneof=GENERAL CHIT_SAVINGS DEPOSIT GOLD SHARES"`
	ContributionType string             `json:"contribution_type" binding:"omitempty,oneof=MONTHLY LUMP_SUM"`
	AmountInvested   decimal.Decimal    `json:"amount_invested"`
	CurrentValue     *decimal.Decimal   `json:"current_value"`
	ChitConfig       *ChitConfigRequest `json:"chit_config"`
	StartDate        Date               `json:"start_date"`
	MaturityDate     *Date              `json:"maturity_date"`
	Notes            string             `json:"notes" binding:"max=500"`
}

// ToInput converts the request into an investment.Input
func (r InvestmentRequest) ToInput() investment.Input {
	in := investment.Input{
		Name:             r.Name,
		Category:         investment.Category(r.Category),
		ContributionType: investment.ContributionType(r.ContributionType),
		AmountInvested:   r.AmountInvested,
		CurrentValue:     r.CurrentValue,
		StartDate:        r.StartDate.OrNow(),
		MaturityDate:     r.MaturityDate.Ptr(),
		Notes:            r.Notes,
	}
	if c := r.ChitConfig; c != nil {
		in.ChitConfig = &investment.ChitConfig{
			GroupName:          c.GroupName,
			Organizer:          c.Organizer,
			TotalValue:         c.TotalValue,
			DurationMonths:     c.DurationMonths,
			MonthlyInstallment: c.MonthlyInstallment,
			StartDate:          c.StartDate.OrNow(),
		}
	}
	return in
}

// LiabilityRequest registers money owed to a lender
type LiabilityRequest struct {
	LenderID     string          `json:"lender_id" binding:"required,max=64"`
	Name         string          `json:"name" binding:"max=200"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	StartDate    Date            `json:"start_date"`
}

// ToInput converts the request into a partner.LiabilityInput
func (r LiabilityRequest) ToInput() partner.LiabilityInput {
	return partner.LiabilityInput{
		LenderID:     r.LenderID,
		Name:         r.Name,
		Principal:    r.Principal,
		InterestRate: r.InterestRate,
		StartDate:    r.StartDate.OrNow(),
	}
}

// AuditLogQuery filters the audit trail
type AuditLogQuery struct {
	EntityType string `form:"entity_type" binding:"omitempty,max=64"`
	EntityID   string `form:"entity_id" binding:"omitempty,max=64"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1"`
}

// WriteSummary is one write of a committed plan
type WriteSummary struct {
	Op     reconcile.Op         `json:"op"`
	Entity reconcile.EntityType `json:"entity"`
	ID     string               `json:"id"`
}

// PlanResponse describes a committed mutation
type PlanResponse struct {
	PlanID      string         `json:"plan_id"`
	Operation   string         `json:"operation"`
	Writes      []WriteSummary `json:"writes"`
	AuditLogIDs []string       `json:"audit_log_ids"`
}

// NewPlanResponse summarizes a committed plan
func NewPlanResponse(p *reconcile.Plan) PlanResponse {
	resp := PlanResponse{
		PlanID:      p.ID,
		Operation:   p.Operation,
		Writes:      make([]WriteSummary, len(p.Writes)),
		AuditLogIDs: make([]string, len(p.AuditLogs)),
	}
	for i, w := range p.Writes {
		resp.Writes[i] = WriteSummary{Op: w.Op, Entity: w.Entity, ID: w.ID}
	}
	for i, l := range p.AuditLogs {
		resp.AuditLogIDs[i] = l.ID
	}
	return resp
}

// BulkPlanResponse describes a committed bulk mutation
type BulkPlanResponse struct {
	PlanID    string         `json:"plan_id"`
	Operation string         `json:"operation"`
	Total     int            `json:"total"`
	Chunks    int            `json:"chunks"`
	Writes    []WriteSummary `json:"writes"`
}

// NewBulkPlanResponse summarizes every chunk of a committed bulk plan
func NewBulkPlanResponse(b *reconcile.BulkPlan) BulkPlanResponse {
	resp := BulkPlanResponse{
		PlanID:    b.ID,
		Operation: b.Operation,
		Total:     b.Total,
		Chunks:    len(b.Chunks),
		Writes:    []WriteSummary{},
	}
	for _, chunk := range b.Chunks {
		for _, w := range chunk.Writes {
			resp.Writes = append(resp.Writes, WriteSummary{Op: w.Op, Entity: w.Entity, ID: w.ID})
		}
	}
	return resp
}
