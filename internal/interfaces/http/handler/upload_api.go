package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/application/asset"
	"github.com/webgarden/platform/internal/interfaces/http/dto"
)

// UploadAPIHandler handles the admin upload JSON endpoints
type UploadAPIHandler struct {
	BaseHandler
	assetService *asset.AssetService
	logger       *zap.Logger
}

// NewUploadAPIHandler creates a new upload API handler
func NewUploadAPIHandler(assetService *asset.AssetService, logger *zap.Logger) *UploadAPIHandler {
	return &UploadAPIHandler{
		assetService: assetService,
		logger:       logger,
	}
}

// Upload handles POST /admin/api/upload. Expects a multipart form with
// a "file" field.
func (h *UploadAPIHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file is required")
		return
	}

	uploadedBy, err := currentAccountID(c)
	if err != nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Sign in required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		h.InternalError(c, "Upload failed")
		return
	}
	defer file.Close()

	record, err := h.assetService.Upload(c.Request.Context(), asset.UploadInput{
		Filename:   fileHeader.Filename,
		Size:       fileHeader.Size,
		Reader:     file,
		UploadedBy: uploadedBy,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// List handles GET /admin/api/uploads
func (h *UploadAPIHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	result, err := h.assetService.List(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Assets, result.Total, result.Page, result.PageSize)
}

// Delete handles DELETE /admin/api/uploads/:id
func (h *UploadAPIHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid upload ID")
		return
	}

	if err := h.assetService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
