package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/application/inquiry"
	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/interfaces/http/middleware"
)

// ContactForm binds the contact page form fields
type ContactForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Phone   string `form:"phone"`
	Message string `form:"message"`
	// Honeypot field, hidden in the rendered form. Bots that fill it
	// get a success page without an inquiry being stored.
	Website string `form:"website"`
}

// ContactHandler serves the contact form
type ContactHandler struct {
	BaseHandler
	inquiryService *inquiry.InquiryService
	site           config.SiteConfig
	logger         *zap.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(inquiryService *inquiry.InquiryService, site config.SiteConfig, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		inquiryService: inquiryService,
		site:           site,
		logger:         logger,
	}
}

// Show handles GET /contact
func (h *ContactHandler) Show(c *gin.Context) {
	h.render(c, http.StatusOK, gin.H{})
}

// Submit handles POST /contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var form ContactForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, gin.H{"Error": "Please fill in the form and try again."})
		return
	}

	if strings.TrimSpace(form.Website) != "" {
		h.logger.Info("Contact form honeypot triggered", zap.String("ip", c.ClientIP()))
		c.Redirect(http.StatusSeeOther, "/contact?sent=1")
		return
	}

	_, err := h.inquiryService.Submit(c.Request.Context(), inquiry.SubmitInput{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Message:  form.Message,
		SourceIP: c.ClientIP(),
	})
	if err != nil {
		h.render(c, http.StatusUnprocessableEntity, gin.H{
			"Error": errorMessage(err),
			"Form":  form,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/contact?sent=1")
}

func (h *ContactHandler) render(c *gin.Context, status int, data gin.H) {
	data["Site"] = h.site
	data["CurrentPage"] = "contact"
	data["Sent"] = c.Query("sent") == "1"
	data["CSRFToken"] = middleware.CSRFToken(c)
	c.HTML(status, "contact.html", data)
}
