package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/webgarden/platform/internal/domain/content"
)

func newArticleAPIRouter(repo *MockArticleRepository) *gin.Engine {
	h := NewArticleAPIHandler(newArticleService(repo), testLogger())

	router := newTestRouter()
	api := router.Group("/admin/api", signedIn("editor"))
	api.GET("/articles", h.List)
	api.GET("/articles/:id", h.Get)
	api.POST("/articles", h.Create)
	api.PUT("/articles/:id", h.Update)
	api.POST("/articles/:id/publish", h.Publish)
	api.POST("/articles/:id/unpublish", h.Unpublish)
	api.DELETE("/articles/:id", h.Delete)
	api.POST("/slug", h.SuggestSlug)
	return router
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestArticleAPI_CreateReturnsCreatedArticle(t *testing.T) {
	repo := new(MockArticleRepository)
	repo.On("ExistsBySlug", mock.Anything, "spring-planting-guide").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	router := newArticleAPIRouter(repo)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/admin/api/articles", CreateArticleRequest{
		Title:   "Spring Planting Guide",
		Content: "<p>Sow early.</p>",
	}))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Title string `json:"title"`
			Slug  string `json:"slug"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Spring Planting Guide", resp.Data.Title)
	assert.Equal(t, "spring-planting-guide", resp.Data.Slug)
}

func TestArticleAPI_CreateRequiresTitleAndContent(t *testing.T) {
	repo := new(MockArticleRepository)

	router := newArticleAPIRouter(repo)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/admin/api/articles", map[string]string{
		"title": "No body",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArticleAPI_CreateExplicitSlugConflict(t *testing.T) {
	repo := new(MockArticleRepository)
	repo.On("ExistsBySlug", mock.Anything, "garden-news").Return(true, nil)

	router := newArticleAPIRouter(repo)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/admin/api/articles", CreateArticleRequest{
		Title:   "Garden News",
		Slug:    "garden-news",
		Content: "<p>News.</p>",
	}))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SLUG_EXISTS")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArticleAPI_PublishAndDelete(t *testing.T) {
	article := publishedArticle(t, "Mulching Basics", "<p>Mulch.</p>")
	article.Unpublish()

	repo := new(MockArticleRepository)
	repo.On("FindByID", mock.Anything, article.ID).Return(article, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	repo.On("Delete", mock.Anything, article.ID).Return(nil)

	router := newArticleAPIRouter(repo)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/api/articles/"+article.ID.String()+"/publish", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/api/articles/"+article.ID.String(), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestArticleAPI_GetUnknownIDReturns404(t *testing.T) {
	repo := new(MockArticleRepository)
	repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	router := newArticleAPIRouter(repo)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/api/articles/6e1f5a4b-2c3d-4e5f-8a9b-0c1d2e3f4a5b", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ARTICLE_NOT_FOUND")
}

func TestArticleAPI_ListReturnsMeta(t *testing.T) {
	articles := []*content.Article{publishedArticle(t, "Mulching Basics", "<p>Mulch.</p>")}

	repo := new(MockArticleRepository)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f content.ArticleFilter) bool {
		return f.Page == 2 && f.PageSize == 10
	})).Return(articles, int64(11), nil)

	router := newArticleAPIRouter(repo)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/api/articles?page=2&page_size=10", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meta struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}

func TestArticleAPI_SuggestSlug(t *testing.T) {
	router := newArticleAPIRouter(new(MockArticleRepository))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/admin/api/slug", SlugRequest{Title: "Pruning Fruit Trees 101"}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pruning-fruit-trees-101"`)
}
