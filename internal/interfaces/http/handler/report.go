package handler

import (
	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the dashboard, the audit trail and session audit entries
type ReportHandler struct {
	BaseHandler
	svc    LedgerService
	limits Limits
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(svc LedgerService, limits Limits) *ReportHandler {
	return &ReportHandler{svc: svc, limits: limits.withDefaults()}
}

// Dashboard godoc
// @Summary      Aggregate ledger figures
// @Tags         reports
// @Produce      json
// @Router       /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// AuditLogs godoc
// @Summary      List audit entries
// @Description  entity_type with entity_id returns one entity's full history unpaginated
// @Tags         reports
// @Produce      json
// @Param        entity_type query string false "Entity type"
// @Param        entity_id   query string false "Entity ID"
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Router       /audit-logs [get]
func (h *ReportHandler) AuditLogs(c *gin.Context) {
	var q dto.AuditLogQuery
	if !h.BindQuery(c, &q) {
		return
	}
	if q.EntityID != "" && q.EntityType == "" {
		h.ValidationError(c, "entity_id requires entity_type", []dto.ValidationDetail{
			{Field: "entity_type", Message: "This field is required"},
		})
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = h.limits.DefaultAuditLimit
	}
	q.PageSize = min(q.PageSize, h.limits.MaxAuditPageSize)

	logs, total, err := h.svc.AuditLogs(c.Request.Context(), q.EntityType, q.EntityID, shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  "timestamp",
		OrderDir: "desc",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if logs == nil {
		logs = []audit.AuditLog{}
	}
	h.SuccessWithMeta(c, logs, total, q.Page, q.PageSize)
}

// Login writes the LOGIN audit entry of the acting user
func (h *ReportHandler) Login(c *gin.Context) {
	h.session(c, audit.ActionLogin)
}

// Logout writes the LOGOUT audit entry of the acting user
func (h *ReportHandler) Logout(c *gin.Context) {
	h.session(c, audit.ActionLogout)
}

func (h *ReportHandler) session(c *gin.Context, action audit.Action) {
	if err := h.svc.RecordSession(c.Request.Context(), action, actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
