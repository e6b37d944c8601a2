package handler

import (
	"strconv"

	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler serves invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	svc    LedgerService
	limits Limits
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(svc LedgerService, limits Limits) *InvoiceHandler {
	return &InvoiceHandler{svc: svc, limits: limits.withDefaults()}
}

// Create godoc
// @Summary      Issue an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.CreateInvoice(c.Request.Context(), req.ToInput(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPlanResponse(plan))
}

// BulkCreate godoc
// @Summary      Issue many invoices
// @Description  Invoices are committed in chunks. A failed chunk leaves earlier chunks committed
// @Description  and answers 207 with the committed count.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Router       /invoices/bulk [post]
func (h *InvoiceHandler) BulkCreate(c *gin.Context) {
	var req dto.BulkInvoicesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if len(req.Invoices) > h.limits.MaxBulkItems {
		h.BadRequest(c, "at most "+strconv.Itoa(h.limits.MaxBulkItems)+" invoices per request")
		return
	}
	plan, err := h.svc.BulkCreateInvoices(c.Request.Context(), req.ToInputs(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewBulkPlanResponse(plan))
}

// BulkDelete removes many invoices with their payments
func (h *InvoiceHandler) BulkDelete(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if len(req.IDs) > h.limits.MaxBulkItems {
		h.BadRequest(c, "at most "+strconv.Itoa(h.limits.MaxBulkItems)+" ids per request")
		return
	}
	plan, err := h.svc.BulkDeleteInvoices(c.Request.Context(), req.IDs, actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewBulkPlanResponse(plan))
}

// Void freezes an invoice
func (h *InvoiceHandler) Void(c *gin.Context) {
	var req dto.VoidInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.VoidInvoice(c.Request.Context(), c.Param("id"), req.Reason, actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewPlanResponse(plan))
}

// Delete removes an invoice together with its payments
func (h *InvoiceHandler) Delete(c *gin.Context) {
	plan, err := h.svc.DeleteInvoice(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewPlanResponse(plan))
}

// Get returns one invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, err := h.svc.Invoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}
