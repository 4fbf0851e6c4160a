package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/application/content"
	"github.com/webgarden/platform/internal/infrastructure/config"
)

const homeArticleCount = 3

// PageHandler serves the public marketing pages
type PageHandler struct {
	BaseHandler
	articleService *content.ArticleService
	site           config.SiteConfig
	chat           config.ChatConfig
	logger         *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(articleService *content.ArticleService, site config.SiteConfig, chat config.ChatConfig, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		articleService: articleService,
		site:           site,
		chat:           chat,
		logger:         logger,
	}
}

// Home handles GET /
func (h *PageHandler) Home(c *gin.Context) {
	articles, err := h.articleService.ListPublished(c.Request.Context(), homeArticleCount)
	if err != nil {
		// the landing page still renders without the article strip
		h.logger.Warn("Failed to load recent articles for home page", zap.Error(err))
		articles = nil
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Site":        h.site,
		"Chat":        h.chat,
		"Articles":    articles,
		"CurrentPage": "home",
	})
}

// About handles GET /about
func (h *PageHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", gin.H{
		"Site":        h.site,
		"Chat":        h.chat,
		"CurrentPage": "about",
	})
}

// Services handles GET /services
func (h *PageHandler) Services(c *gin.Context) {
	c.HTML(http.StatusOK, "services.html", gin.H{
		"Site":        h.site,
		"Chat":        h.chat,
		"CurrentPage": "services",
	})
}

// NotFoundPage renders the 404 page for unmatched routes
func (h *PageHandler) NotFoundPage(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{"Site": h.site})
}
