// internal/handlers/audit_entry.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/utils"
)

type AuditEntryHandler struct {
	auditService *services.AuditService
}

func NewAuditEntryHandler(auditService *services.AuditService) *AuditEntryHandler {
	return &AuditEntryHandler{auditService: auditService}
}

// POST /api/audit-entries
func (h *AuditEntryHandler) CreateEntry(c *gin.Context) {
	var req services.CreateAuditEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.auditService.CreateEntry(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, entry)
}
