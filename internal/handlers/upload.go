// internal/handlers/upload.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/asset-audit/internal/i18n"
	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/utils"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	storage services.PhotoStorage
	maxSize int64
}

func NewUploadHandler(storage services.PhotoStorage, maxSize int64) *UploadHandler {
	return &UploadHandler{
		storage: storage,
		maxSize: maxSize,
	}
}

// POST /api/upload
func (h *UploadHandler) UploadPhoto(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+multipartOverhead)

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadTooLarge), nil)
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadMissing), nil)
		return
	}
	if fileHeader.Size > h.maxSize {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadTooLarge), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadFailed), nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadFailed), nil)
		return
	}

	result, err := h.storage.Store(c.Request.Context(), &services.PhotoUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}
