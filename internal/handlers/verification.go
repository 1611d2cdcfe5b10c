// internal/handlers/verification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/asset-audit/internal/i18n"
	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/utils"
)

// VerificationHandler takes the three kinds of field submissions. A QR
// mismatch is still a 200; the caller reads Matched.
type VerificationHandler struct {
	auditService *services.AuditService
}

func NewVerificationHandler(auditService *services.AuditService) *VerificationHandler {
	return &VerificationHandler{
		auditService: auditService,
	}
}

// POST /api/assets/:id/verify/qr
func (h *VerificationHandler) VerifyQR(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}

	var req services.QRScanRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auditService.SubmitQRScan(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Matched {
		result.Notice = i18n.T(lang, i18n.KeyQRMatched)
	} else {
		result.Notice = i18n.T(lang, i18n.KeyQRMismatch)
	}
	utils.SuccessResponse(c, result)
}

// POST /api/assets/:id/verify/manual
func (h *VerificationHandler) VerifyManual(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}

	var req services.ManualEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auditService.SubmitManualEntry(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	result.Notice = i18n.T(lang, i18n.KeyManualQueued)
	utils.SuccessResponse(c, result)
}

// POST /api/assets/:id/verify/status
func (h *VerificationHandler) VerifyStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}

	var req services.StatusSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auditService.SubmitStatus(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	result.Notice = i18n.T(lang, i18n.KeyStatusRecorded)
	utils.SuccessResponse(c, result)
}
