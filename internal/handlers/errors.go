// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/asset-audit/internal/audit"
	"github.com/javajoker/asset-audit/internal/i18n"
	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/store"
	"github.com/javajoker/asset-audit/internal/utils"
)

// respondError maps service and store errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var notFound *services.NotFoundError
	var invalid *services.ValidationError

	switch {
	case utils.IsValidationError(err):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	case errors.As(err, &invalid):
		utils.ValidationErrorResponse(c, []utils.ValidationError{{
			Field:   invalid.Field,
			Tag:     "invalid",
			Message: invalid.Message,
		}})
	case errors.As(err, &notFound):
		utils.NotFoundResponse(c, notFound.Resource)
	case errors.Is(err, store.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyNotFound), nil)
	case errors.Is(err, store.ErrConflict):
		utils.ConflictResponse(c, "")
	case errors.Is(err, audit.ErrIllegalTransition):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAssetIllegalStatus))
	case errors.Is(err, services.ErrActiveAuditExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuditActiveExists))
	case errors.Is(err, services.ErrAuditNotActive):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuditNotActive))
	case errors.Is(err, services.ErrAuditFranchiseMismatch):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuditFranchiseMismatch))
	case errors.Is(err, services.ErrUploadEmpty):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadMissing), nil)
	case errors.Is(err, services.ErrUploadTooLarge):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadTooLarge), nil)
	case errors.Is(err, services.ErrUploadType):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadInvalidType), nil)
	default:
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
		}).Error("Request failed")
		utils.InternalErrorResponse(c)
	}
}

// parseID reads a positive numeric path parameter. It writes the 400
// response itself and returns false when the value is malformed.
func parseID(c *gin.Context, param, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationBadID, resource), nil)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body. A malformed body is a 400 BAD_REQUEST.
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "request body"), err.Error())
		return false
	}
	return true
}
