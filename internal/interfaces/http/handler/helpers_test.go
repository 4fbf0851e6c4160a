package handler

import (
	"context"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/domain/content"
	"github.com/webgarden/platform/internal/domain/identity"
	"github.com/webgarden/platform/internal/domain/inquiry"
	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testAccountID = uuid.MustParse("3e3c7a61-9d2e-4f10-8c54-1a2b3c4d5e6f")

func testSite() config.SiteConfig {
	return config.SiteConfig{
		Name:         "Rosewood Landscaping",
		Domain:       "rosewood.example",
		ContactEmail: "hello@rosewood.example",
	}
}

func testChatConfig(endpoint string) config.ChatConfig {
	return config.ChatConfig{
		Enabled:     endpoint != "",
		APIEndpoint: endpoint,
		BotID:       "bot-rosewood",
		Timeout:     2 * time.Second,
	}
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:   "handler-test-secret-32-chars-long!!",
		Name:     "test_session",
		MaxAge:   time.Hour,
		SameSite: "lax",
	}
}

// testTemplates builds stand-in templates so HTML handlers can render
// without the real template set
func testTemplates() *template.Template {
	root := template.New("")
	for _, name := range []string{
		"home.html", "about.html", "services.html", "contact.html",
		"blog_list.html", "blog_show.html",
		"404.html", "500.html",
		"admin_login.html", "admin_dashboard.html",
		"admin_articles.html", "admin_article_form.html",
		"admin_inquiries.html", "admin_inquiry_show.html",
		"admin_assets.html", "admin_accounts.html",
	} {
		template.Must(root.New(name).Parse(name + ` {{with .Error}}error={{.}}{{end}}`))
	}
	return root
}

// newTestRouter returns a gin engine with sessions and test templates
func newTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.Sessions(testSessionConfig()))
	router.SetHTMLTemplate(testTemplates())
	return router
}

// signedIn is a test middleware that signs in a fixed account before
// the handler under test runs
func signedIn(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = middleware.SignIn(c, testAccountID, "admin1", role)
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// MockAccountRepository is a mock implementation of identity.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *identity.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *identity.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByUsername(ctx context.Context, username string) (*identity.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter identity.AccountFilter) ([]*identity.Account, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) CountAdmins(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockArticleRepository is a mock implementation of content.ArticleRepository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *content.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Update(ctx context.Context, article *content.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Article), args.Error(1)
}

func (m *MockArticleRepository) FindBySlug(ctx context.Context, slug string) (*content.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Article), args.Error(1)
}

func (m *MockArticleRepository) FindPublishedBySlug(ctx context.Context, slug string) (*content.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Article), args.Error(1)
}

func (m *MockArticleRepository) FindAll(ctx context.Context, filter content.ArticleFilter) ([]*content.Article, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*content.Article), args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleRepository) FindPublished(ctx context.Context, limit int) ([]*content.Article, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*content.Article), args.Error(1)
}

func (m *MockArticleRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockInquiryRepository is a mock implementation of inquiry.InquiryRepository
type MockInquiryRepository struct {
	mock.Mock
}

func (m *MockInquiryRepository) Create(ctx context.Context, record *inquiry.Inquiry) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockInquiryRepository) Update(ctx context.Context, record *inquiry.Inquiry) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockInquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInquiryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inquiry.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inquiry.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) FindAll(ctx context.Context, filter inquiry.InquiryFilter) ([]*inquiry.Inquiry, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*inquiry.Inquiry), args.Get(1).(int64), args.Error(2)
}

func (m *MockInquiryRepository) CountByStatus(ctx context.Context, status inquiry.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInquiryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
