package handler

import (
	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// InvestmentHandler serves investments and their contributions
type InvestmentHandler struct {
	BaseHandler
	svc LedgerService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(svc LedgerService) *InvestmentHandler {
	return &InvestmentHandler{svc: svc}
}

// InvestmentTotalResponse is the amount put into an investment so far
type InvestmentTotalResponse struct {
	InvestmentID string          `json:"investment_id"`
	Total        decimal.Decimal `json:"total"`
}

// Create registers an investment
func (h *InvestmentHandler) Create(c *gin.Context) {
	var req dto.InvestmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.CreateInvestment(c.Request.Context(), req.ToInput(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPlanResponse(plan))
}

// RecordContribution appends a contribution to an investment
func (h *InvestmentHandler) RecordContribution(c *gin.Context) {
	var req dto.ContributionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.RecordContribution(c.Request.Context(), c.Param("id"), req.ToInput(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPlanResponse(plan))
}

// Total returns the invested total
func (h *InvestmentHandler) Total(c *gin.Context) {
	id := c.Param("id")
	total, err := h.svc.InvestmentTotal(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, InvestmentTotalResponse{InvestmentID: id, Total: total})
}
