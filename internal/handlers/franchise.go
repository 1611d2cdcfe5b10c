// internal/handlers/franchise.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/utils"
)

type FranchiseHandler struct {
	franchiseService *services.FranchiseService
	reportService    *services.ReportService
}

func NewFranchiseHandler(franchiseService *services.FranchiseService, reportService *services.ReportService) *FranchiseHandler {
	return &FranchiseHandler{
		franchiseService: franchiseService,
		reportService:    reportService,
	}
}

// GET /api/franchises
func (h *FranchiseHandler) ListFranchises(c *gin.Context) {
	franchises, err := h.franchiseService.ListFranchises(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, franchises)
}

// GET /api/franchise/:id
func (h *FranchiseHandler) GetFranchise(c *gin.Context) {
	id, ok := parseID(c, "id", "franchise")
	if !ok {
		return
	}

	franchise, err := h.franchiseService.GetFranchise(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, franchise)
}

// GET /api/franchise/:id/labels
func (h *FranchiseHandler) LabelSheet(c *gin.Context) {
	id, ok := parseID(c, "id", "franchise")
	if !ok {
		return
	}

	pdf, err := h.reportService.LabelSheet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="franchise-%d-labels.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
