package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/application/content"
	contentdomain "github.com/webgarden/platform/internal/domain/content"
	"github.com/webgarden/platform/internal/infrastructure/config"
)

const blogPageSize = 10

// BlogHandler serves the public blog pages
type BlogHandler struct {
	BaseHandler
	articleService *content.ArticleService
	site           config.SiteConfig
	logger         *zap.Logger
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(articleService *content.ArticleService, site config.SiteConfig, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{
		articleService: articleService,
		site:           site,
		logger:         logger,
	}
}

// List handles GET /blog
func (h *BlogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}

	visible := true
	result, err := h.articleService.List(c.Request.Context(), contentdomain.ArticleFilter{
		Visible:  &visible,
		Page:     page,
		PageSize: blogPageSize,
	})
	if err != nil {
		h.logger.Error("Failed to list published articles", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"Site": h.site})
		return
	}

	c.HTML(http.StatusOK, "blog_list.html", gin.H{
		"Site":        h.site,
		"Articles":    result.Articles,
		"Page":        page,
		"TotalPages":  result.TotalPages,
		"HasPrev":     page > 1,
		"HasNext":     page < result.TotalPages,
		"CurrentPage": "blog",
	})
}

// Show handles GET /blog/:slug. Unpublished and unknown slugs both
// render the 404 page.
func (h *BlogHandler) Show(c *gin.Context) {
	article, err := h.articleService.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{"Site": h.site})
		return
	}

	c.HTML(http.StatusOK, "blog_show.html", gin.H{
		"Site":        h.site,
		"Article":     article,
		"CurrentPage": "blog",
	})
}
