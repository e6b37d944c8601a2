package handler

import (
	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PartnerHandler registers customers and lender liabilities
type PartnerHandler struct {
	BaseHandler
	svc LedgerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(svc LedgerService) *PartnerHandler {
	return &PartnerHandler{svc: svc}
}

// CreateCustomer registers a customer
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.CreateCustomer(c.Request.Context(), req.ToInput(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPlanResponse(plan))
}

// CreateLiability registers money owed to a lender
func (h *PartnerHandler) CreateLiability(c *gin.Context) {
	var req dto.LiabilityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.CreateLiability(c.Request.Context(), req.ToInput(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPlanResponse(plan))
}
