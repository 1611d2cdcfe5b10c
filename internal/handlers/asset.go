// internal/handlers/asset.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/asset-audit/internal/i18n"
	"github.com/javajoker/asset-audit/internal/qr"
	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/utils"
)

const FranchiseHeader = "X-Franchise-ID"

type AssetHandler struct {
	assetService  *services.AssetService
	auditService  *services.AuditService
	reportService *services.ReportService
}

func NewAssetHandler(assetService *services.AssetService, auditService *services.AuditService, reportService *services.ReportService) *AssetHandler {
	return &AssetHandler{
		assetService:  assetService,
		auditService:  auditService,
		reportService: reportService,
	}
}

// GET /api/assets/franchise/:id
func (h *AssetHandler) ListByFranchise(c *gin.Context) {
	franchiseID, ok := parseID(c, "id", "franchise")
	if !ok {
		return
	}

	assets, err := h.assetService.ListByFranchise(c.Request.Context(), franchiseID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, assets)
}

// GET /api/assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}

	asset, err := h.assetService.GetAsset(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, asset)
}

// POST /api/assets
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateAssetRequest
	if !bindJSON(c, &req) {
		return
	}

	// The dashboard sends the franchise it is scoped to as a header
	if req.FranchiseID == 0 {
		if header := c.GetHeader(FranchiseHeader); header != "" {
			franchiseID, err := strconv.ParseUint(header, 10, 64)
			if err != nil || franchiseID == 0 {
				utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationBadID, "franchise"), nil)
				return
			}
			req.FranchiseID = uint(franchiseID)
		}
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, asset)
}

// PATCH /api/assets/:id
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}

	var req services.UpdateAssetRequest
	if !bindJSON(c, &req) {
		return
	}

	asset, err := h.assetService.UpdateAsset(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, asset)
}

// DELETE /api/assets/:id
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}

	if err := h.assetService.DeleteAsset(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"id":      id,
		"message": i18n.T(lang, i18n.KeyAssetDeleted),
	})
}

// GET /api/assets/:id/qr
func (h *AssetHandler) QRCode(c *gin.Context) {
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(qr.DefaultSize)))
	if err != nil || size < 64 || size > 1024 {
		size = qr.DefaultSize
	}

	png, asset, err := h.reportService.QRLabel(c.Request.Context(), id, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.png"`, asset.SerialNumber))
	c.Data(http.StatusOK, "image/png", png)
}

// GET /api/assets/:id/entries
func (h *AssetHandler) Entries(c *gin.Context) {
	id, ok := parseID(c, "id", "asset")
	if !ok {
		return
	}

	entries, err := h.auditService.ListAssetEntries(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, entries)
}
