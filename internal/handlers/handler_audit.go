package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/dto"
)

// auditHandler handles HTTP requests for the audit trail (Admin only).
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(auditService portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: auditService}
}

func (h *auditHandler) listAuditLogs(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var params dto.ListAuditLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.auditService.ListAuditLogs(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *auditHandler) clearAuditLogs(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	removed, err := h.auditService.ClearAuditLogs(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to clear audit logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entriesRemoved": removed})
}

// registerAuditRoutes wires audit endpoints under /api/v1.
func registerAuditRoutes(v1 *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	audit := v1.Group("/audit-logs")
	{
		audit.GET("", h.listAuditLogs)
		audit.DELETE("", h.clearAuditLogs)
	}
}
