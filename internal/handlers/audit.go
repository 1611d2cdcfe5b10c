// internal/handlers/audit.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/utils"
)

type AuditHandler struct {
	auditService  *services.AuditService
	reportService *services.ReportService
}

func NewAuditHandler(auditService *services.AuditService, reportService *services.ReportService) *AuditHandler {
	return &AuditHandler{
		auditService:  auditService,
		reportService: reportService,
	}
}

// GET /api/audit/franchise/:id
func (h *AuditHandler) CurrentAudit(c *gin.Context) {
	franchiseID, ok := parseID(c, "id", "franchise")
	if !ok {
		return
	}

	summary, err := h.auditService.Current(c.Request.Context(), franchiseID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// POST /api/audits
func (h *AuditHandler) StartAudit(c *gin.Context) {
	var req services.StartAuditRequest
	if !bindJSON(c, &req) {
		return
	}

	audit, err := h.auditService.StartAudit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, audit)
}

// PATCH /api/audits/:id
func (h *AuditHandler) UpdateAudit(c *gin.Context) {
	id, ok := parseID(c, "id", "audit")
	if !ok {
		return
	}

	var req services.UpdateAuditRequest
	if !bindJSON(c, &req) {
		return
	}

	audit, err := h.auditService.UpdateAudit(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, audit)
}

// GET /api/audits/:id/entries
func (h *AuditHandler) Entries(c *gin.Context) {
	id, ok := parseID(c, "id", "audit")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	entries, err := h.auditService.ListEntries(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	page, total := utils.Paginate(entries, params)
	utils.PaginatedResponse(c, utils.CreatePaginationResult(page, total, params))
}

// GET /api/audits/:id/report
func (h *AuditHandler) Report(c *gin.Context) {
	id, ok := parseID(c, "id", "audit")
	if !ok {
		return
	}

	pdf, err := h.reportService.AuditReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="audit-%d-report.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
