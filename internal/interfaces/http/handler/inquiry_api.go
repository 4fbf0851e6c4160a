package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/application/inquiry"
	inquirydomain "github.com/webgarden/platform/internal/domain/inquiry"
	"github.com/webgarden/platform/internal/interfaces/http/dto"
)

// UpdateInquiryRequest is the payload for updating an inquiry
type UpdateInquiryRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// InquiryAPIHandler handles the admin inquiry JSON endpoints
type InquiryAPIHandler struct {
	BaseHandler
	inquiryService *inquiry.InquiryService
	logger         *zap.Logger
}

// NewInquiryAPIHandler creates a new inquiry API handler
func NewInquiryAPIHandler(inquiryService *inquiry.InquiryService, logger *zap.Logger) *InquiryAPIHandler {
	return &InquiryAPIHandler{
		inquiryService: inquiryService,
		logger:         logger,
	}
}

// List handles GET /admin/api/inquiries
func (h *InquiryAPIHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	filter := inquirydomain.InquiryFilter{
		Keyword:  req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if raw := c.Query("status"); raw != "" {
		status := inquirydomain.Status(raw)
		filter.Status = &status
	}

	result, err := h.inquiryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Inquiries, result.Total, result.Page, result.PageSize)
}

// Get handles GET /admin/api/inquiries/:id
func (h *InquiryAPIHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid inquiry ID")
		return
	}

	record, err := h.inquiryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Update handles PUT /admin/api/inquiries/:id
func (h *InquiryAPIHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid inquiry ID")
		return
	}

	var req UpdateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.inquiryService.Update(c.Request.Context(), inquiry.UpdateInput{
		ID:     id,
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// MarkResponded handles POST /admin/api/inquiries/:id/respond
func (h *InquiryAPIHandler) MarkResponded(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid inquiry ID")
		return
	}

	record, err := h.inquiryService.MarkResponded(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Delete handles DELETE /admin/api/inquiries/:id
func (h *InquiryAPIHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid inquiry ID")
		return
	}

	if err := h.inquiryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
