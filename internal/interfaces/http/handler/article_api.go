package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/application/content"
	contentdomain "github.com/webgarden/platform/internal/domain/content"
	"github.com/webgarden/platform/internal/interfaces/http/dto"
)

// CreateArticleRequest is the payload for creating an article
type CreateArticleRequest struct {
	Title   string `json:"title" binding:"required"`
	Slug    string `json:"slug"`
	Content string `json:"content" binding:"required"`
	Publish bool   `json:"publish"`
}

// UpdateArticleRequest is the payload for updating an article
type UpdateArticleRequest struct {
	Title   *string `json:"title"`
	Slug    *string `json:"slug"`
	Content *string `json:"content"`
}

// SlugRequest is the payload for slug suggestions
type SlugRequest struct {
	Title string `json:"title" binding:"required"`
}

// ArticleAPIHandler handles the admin article JSON endpoints
type ArticleAPIHandler struct {
	BaseHandler
	articleService *content.ArticleService
	logger         *zap.Logger
}

// NewArticleAPIHandler creates a new article API handler
func NewArticleAPIHandler(articleService *content.ArticleService, logger *zap.Logger) *ArticleAPIHandler {
	return &ArticleAPIHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// List handles GET /admin/api/articles
func (h *ArticleAPIHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	result, err := h.articleService.List(c.Request.Context(), contentdomain.ArticleFilter{
		Keyword:  req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Articles, result.Total, result.Page, result.PageSize)
}

// Get handles GET /admin/api/articles/:id
func (h *ArticleAPIHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	article, err := h.articleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, article)
}

// Create handles POST /admin/api/articles
func (h *ArticleAPIHandler) Create(c *gin.Context) {
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Title and content are required")
		return
	}

	authorID, err := currentAccountID(c)
	if err != nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Sign in required")
		return
	}

	article, err := h.articleService.Create(c.Request.Context(), content.CreateArticleInput{
		Title:    req.Title,
		Slug:     req.Slug,
		Content:  req.Content,
		AuthorID: authorID,
		Publish:  req.Publish,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, article)
}

// Update handles PUT /admin/api/articles/:id
func (h *ArticleAPIHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	article, err := h.articleService.Update(c.Request.Context(), content.UpdateArticleInput{
		ID:      id,
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, article)
}

// Publish handles POST /admin/api/articles/:id/publish
func (h *ArticleAPIHandler) Publish(c *gin.Context) {
	h.setVisibility(c, true)
}

// Unpublish handles POST /admin/api/articles/:id/unpublish
func (h *ArticleAPIHandler) Unpublish(c *gin.Context) {
	h.setVisibility(c, false)
}

func (h *ArticleAPIHandler) setVisibility(c *gin.Context, visible bool) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	var article *content.ArticleDTO
	if visible {
		article, err = h.articleService.Publish(c.Request.Context(), id)
	} else {
		article, err = h.articleService.Unpublish(c.Request.Context(), id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, article)
}

// Delete handles DELETE /admin/api/articles/:id
func (h *ArticleAPIHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SuggestSlug handles POST /admin/api/slug. The editor uses it to
// preview the slug a title will get.
func (h *ArticleAPIHandler) SuggestSlug(c *gin.Context) {
	var req SlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "A title is required")
		return
	}

	h.Success(c, gin.H{"slug": contentdomain.Slugify(req.Title)})
}
