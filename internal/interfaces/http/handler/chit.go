package handler

import (
	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ChitHandler serves chit groups and their auctions
type ChitHandler struct {
	BaseHandler
	svc LedgerService
}

// NewChitHandler creates a new ChitHandler
func NewChitHandler(svc LedgerService) *ChitHandler {
	return &ChitHandler{svc: svc}
}

// CreateGroup registers a chit group
func (h *ChitHandler) CreateGroup(c *gin.Context) {
	var req dto.ChitGroupRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.CreateChitGroup(c.Request.Context(), req.ToInput(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPlanResponse(plan))
}

// RecordAuction godoc
// @Summary      Record the next auction of a chit group
// @Description  Optionally raises the commission and payout invoices of the month
// @Tags         chit-groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Chit group ID"
// @Router       /chit-groups/{id}/auctions [post]
func (h *ChitHandler) RecordAuction(c *gin.Context) {
	var req dto.AuctionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.RecordAuction(c.Request.Context(), c.Param("id"), req.ToRequest(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPlanResponse(plan))
}

// DeleteAuction removes the latest auction of a group
func (h *ChitHandler) DeleteAuction(c *gin.Context) {
	plan, err := h.svc.DeleteAuction(c.Request.Context(), c.Param("id"), c.Param("auctionId"), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewPlanResponse(plan))
}

// State returns the derived state of a chit group
func (h *ChitHandler) State(c *gin.Context) {
	state, err := h.svc.ChitState(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, state)
}
