package handler

import (
	"strconv"

	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PaymentHandler serves voucher mutations
type PaymentHandler struct {
	BaseHandler
	svc    LedgerService
	limits Limits
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(svc LedgerService, limits Limits) *PaymentHandler {
	return &PaymentHandler{svc: svc, limits: limits.withDefaults()}
}

// Apply godoc
// @Summary      Record a voucher
// @Description  Records a payment and settles the invoice or liability it references
// @Tags         payments
// @Accept       json
// @Produce      json
// @Router       /payments [post]
func (h *PaymentHandler) Apply(c *gin.Context) {
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.ApplyPayment(c.Request.Context(), req.ToInput(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPlanResponse(plan))
}

// Edit godoc
// @Summary      Edit a voucher
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID"
// @Router       /payments/{id} [put]
func (h *PaymentHandler) Edit(c *gin.Context) {
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.EditPayment(c.Request.Context(), c.Param("id"), req.ToInput(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewPlanResponse(plan))
}

// Reverse godoc
// @Summary      Delete a voucher and undo its effects
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) Reverse(c *gin.Context) {
	plan, err := h.svc.ReversePayment(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewPlanResponse(plan))
}

// BulkDelete reverses many vouchers
func (h *PaymentHandler) BulkDelete(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if len(req.IDs) > h.limits.MaxBulkItems {
		h.BadRequest(c, "at most "+strconv.Itoa(h.limits.MaxBulkItems)+" ids per request")
		return
	}
	plan, err := h.svc.BulkDeletePayments(c.Request.Context(), req.IDs, actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewBulkPlanResponse(plan))
}
