package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/application/asset"
	"github.com/webgarden/platform/internal/application/content"
	"github.com/webgarden/platform/internal/application/identity"
	"github.com/webgarden/platform/internal/application/inquiry"
	contentdomain "github.com/webgarden/platform/internal/domain/content"
	identitydomain "github.com/webgarden/platform/internal/domain/identity"
	inquirydomain "github.com/webgarden/platform/internal/domain/inquiry"
	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/interfaces/http/middleware"
)

const adminPageSize = 20

// AdminHandler serves the server-rendered admin pages. Mutations go
// through the JSON handlers under /admin/api.
type AdminHandler struct {
	BaseHandler
	accountService *identity.AccountService
	articleService *content.ArticleService
	inquiryService *inquiry.InquiryService
	assetService   *asset.AssetService
	site           config.SiteConfig
	logger         *zap.Logger
}

// NewAdminHandler creates a new admin page handler
func NewAdminHandler(
	accountService *identity.AccountService,
	articleService *content.ArticleService,
	inquiryService *inquiry.InquiryService,
	assetService *asset.AssetService,
	site config.SiteConfig,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		accountService: accountService,
		articleService: articleService,
		inquiryService: inquiryService,
		assetService:   assetService,
		site:           site,
		logger:         logger,
	}
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	articles, err := h.articleService.Count(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	inquiries, err := h.inquiryService.Count(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	newInquiries, err := h.inquiryService.CountNew(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	assets, err := h.assetService.Count(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.render(c, "admin_dashboard.html", gin.H{
		"ArticleCount":    articles,
		"InquiryCount":    inquiries,
		"NewInquiryCount": newInquiries,
		"AssetCount":      assets,
	})
}

// Articles handles GET /admin/articles
func (h *AdminHandler) Articles(c *gin.Context) {
	result, err := h.articleService.List(c.Request.Context(), contentdomain.ArticleFilter{
		Keyword:  c.Query("search"),
		Page:     pageParam(c),
		PageSize: adminPageSize,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.render(c, "admin_articles.html", gin.H{
		"Articles":   result.Articles,
		"Total":      result.Total,
		"Page":       result.Page,
		"TotalPages": result.TotalPages,
		"Search":     c.Query("search"),
	})
}

// NewArticle handles GET /admin/articles/new
func (h *AdminHandler) NewArticle(c *gin.Context) {
	h.render(c, "admin_article_form.html", gin.H{})
}

// EditArticle handles GET /admin/articles/:id/edit
func (h *AdminHandler) EditArticle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.renderNotFound(c)
		return
	}

	article, err := h.articleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderNotFound(c)
		return
	}

	h.render(c, "admin_article_form.html", gin.H{"Article": article})
}

// Inquiries handles GET /admin/inquiries
func (h *AdminHandler) Inquiries(c *gin.Context) {
	filter := inquirydomain.InquiryFilter{
		Keyword:  c.Query("search"),
		Page:     pageParam(c),
		PageSize: adminPageSize,
	}
	if raw := c.Query("status"); raw != "" {
		status := inquirydomain.Status(raw)
		filter.Status = &status
	}

	result, err := h.inquiryService.List(c.Request.Context(), filter)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.render(c, "admin_inquiries.html", gin.H{
		"Inquiries":  result.Inquiries,
		"Total":      result.Total,
		"Page":       result.Page,
		"TotalPages": result.TotalPages,
		"Status":     c.Query("status"),
		"Search":     c.Query("search"),
	})
}

// ShowInquiry handles GET /admin/inquiries/:id. Viewing a new inquiry
// marks it as read.
func (h *AdminHandler) ShowInquiry(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.renderNotFound(c)
		return
	}

	record, err := h.inquiryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderNotFound(c)
		return
	}

	h.render(c, "admin_inquiry_show.html", gin.H{"Inquiry": record})
}

// Assets handles GET /admin/assets
func (h *AdminHandler) Assets(c *gin.Context) {
	result, err := h.assetService.List(c.Request.Context(), pageParam(c), adminPageSize)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.render(c, "admin_assets.html", gin.H{
		"Assets":     result.Assets,
		"Total":      result.Total,
		"Page":       result.Page,
		"TotalPages": result.TotalPages,
	})
}

// Accounts handles GET /admin/accounts. Admin only.
func (h *AdminHandler) Accounts(c *gin.Context) {
	result, err := h.accountService.List(c.Request.Context(), identitydomain.AccountFilter{
		Keyword:  c.Query("search"),
		Page:     pageParam(c),
		PageSize: adminPageSize,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.render(c, "admin_accounts.html", gin.H{
		"Accounts":   result.Accounts,
		"Total":      result.Total,
		"Page":       result.Page,
		"TotalPages": result.TotalPages,
		"Search":     c.Query("search"),
	})
}

func (h *AdminHandler) render(c *gin.Context, name string, data gin.H) {
	data["Site"] = h.site
	data["Username"] = middleware.CurrentUsername(c)
	data["Role"] = middleware.CurrentRole(c)
	data["CSRFToken"] = middleware.CSRFToken(c)
	c.HTML(http.StatusOK, name, data)
}

func (h *AdminHandler) renderError(c *gin.Context, err error) {
	h.logger.Error("Admin page failed to load", zap.Error(err))
	c.HTML(http.StatusInternalServerError, "500.html", gin.H{"Site": h.site})
}

func (h *AdminHandler) renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{"Site": h.site})
}

func pageParam(c *gin.Context) int {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	return page
}
