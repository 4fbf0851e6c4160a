package router

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/webgarden/platform/internal/application/asset"
	"github.com/webgarden/platform/internal/application/content"
	"github.com/webgarden/platform/internal/application/identity"
	"github.com/webgarden/platform/internal/application/inquiry"
	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/infrastructure/logger"
	"github.com/webgarden/platform/internal/infrastructure/storage"
	"github.com/webgarden/platform/internal/interfaces/http/handler"
	"github.com/webgarden/platform/internal/interfaces/http/middleware"
	"github.com/webgarden/platform/web"
)

// Services bundles the application services the routes depend on
type Services struct {
	Auth      *identity.AuthService
	Accounts  *identity.AccountService
	Articles  *content.ArticleService
	Inquiries *inquiry.InquiryService
	Assets    *asset.AssetService
}

// New assembles the gin engine with all middleware and routes
func New(cfg *config.Config, db *gorm.DB, services Services, log *zap.Logger) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.Session.Secure
	engine.Use(middleware.SecurityHeaders(security))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Sessions(cfg.Session))

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	engine.SetHTMLTemplate(templates)

	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("load static assets: %w", err)
	}
	engine.StaticFS("/static", http.FS(static))

	mountUploads(engine, cfg.Upload)

	contactLimiter, loginLimiter, chatLimiter := buildLimiters(cfg.RateLimit, log)
	csrf := middleware.CSRF(cfg.Session.Secret)

	pages := handler.NewPageHandler(services.Articles, cfg.Site, cfg.Chat, log)
	blog := handler.NewBlogHandler(services.Articles, cfg.Site, log)
	contact := handler.NewContactHandler(services.Inquiries, cfg.Site, log)
	chat := handler.NewChatHandler(cfg.Chat, log)
	system := handler.NewSystemHandler(db)
	auth := handler.NewAuthHandler(services.Auth, cfg.Site, log)
	admin := handler.NewAdminHandler(services.Accounts, services.Articles, services.Inquiries, services.Assets, cfg.Site, log)
	articleAPI := handler.NewArticleAPIHandler(services.Articles, log)
	inquiryAPI := handler.NewInquiryAPIHandler(services.Inquiries, log)
	accountAPI := handler.NewAccountAPIHandler(services.Accounts, services.Auth, log)
	uploadAPI := handler.NewUploadAPIHandler(services.Assets, log)

	// public site
	site := engine.Group("", csrf)
	site.GET("/", pages.Home)
	site.GET("/about", pages.About)
	site.GET("/services", pages.Services)
	site.GET("/blog", blog.List)
	site.GET("/blog/:slug", blog.Show)
	site.GET("/contact", contact.Show)
	if contactLimiter != nil {
		site.POST("/contact", middleware.RateLimit(contactLimiter), contact.Submit)
	} else {
		site.POST("/contact", contact.Submit)
	}

	if chatLimiter != nil {
		engine.POST("/api/chat", middleware.RateLimit(chatLimiter), chat.Relay)
	} else {
		engine.POST("/api/chat", chat.Relay)
	}
	engine.GET("/health", system.Health)

	// admin sign-in
	authGroup := engine.Group("/admin", csrf)
	authGroup.GET("/login", auth.ShowLogin)
	if loginLimiter != nil {
		authGroup.POST("/login", middleware.RateLimit(loginLimiter), auth.Login)
	} else {
		authGroup.POST("/login", auth.Login)
	}
	authGroup.POST("/logout", auth.Logout)

	// admin pages
	adminPages := engine.Group("/admin", csrf, middleware.RequireAuth())
	adminPages.GET("", admin.Dashboard)
	adminPages.GET("/articles", admin.Articles)
	adminPages.GET("/articles/new", admin.NewArticle)
	adminPages.GET("/articles/:id/edit", admin.EditArticle)
	adminPages.GET("/inquiries", admin.Inquiries)
	adminPages.GET("/inquiries/:id", admin.ShowInquiry)
	adminPages.GET("/assets", admin.Assets)
	adminPages.GET("/accounts", middleware.RequireAdmin(), admin.Accounts)

	// admin JSON API
	api := engine.Group("/admin/api", csrf, middleware.RequireAuth())
	api.GET("/articles", articleAPI.List)
	api.GET("/articles/:id", articleAPI.Get)
	api.POST("/articles", articleAPI.Create)
	api.PUT("/articles/:id", articleAPI.Update)
	api.POST("/articles/:id/publish", articleAPI.Publish)
	api.POST("/articles/:id/unpublish", articleAPI.Unpublish)
	api.DELETE("/articles/:id", articleAPI.Delete)
	api.POST("/slug", articleAPI.SuggestSlug)

	api.GET("/inquiries", inquiryAPI.List)
	api.GET("/inquiries/:id", inquiryAPI.Get)
	api.PUT("/inquiries/:id", inquiryAPI.Update)
	api.POST("/inquiries/:id/respond", inquiryAPI.MarkResponded)
	api.DELETE("/inquiries/:id", inquiryAPI.Delete)

	api.POST("/upload", uploadAPI.Upload)
	api.GET("/uploads", uploadAPI.List)
	api.DELETE("/uploads/:id", uploadAPI.Delete)

	api.POST("/password", accountAPI.ChangePassword)

	accounts := api.Group("", middleware.RequireAdmin())
	accounts.GET("/accounts", accountAPI.List)
	accounts.POST("/accounts", accountAPI.Create)
	accounts.PUT("/accounts/:id", accountAPI.Update)
	accounts.POST("/accounts/:id/active", accountAPI.SetActive)
	accounts.POST("/accounts/:id/unlock", accountAPI.Unlock)
	accounts.POST("/accounts/:id/password", accountAPI.ResetPassword)
	accounts.DELETE("/accounts/:id", accountAPI.Delete)

	engine.NoRoute(pages.NotFoundPage)

	return engine, nil
}

// mountUploads serves locally stored upload objects. LocalStore keeps
// objects under the uploads/ and thumbnails/ key prefixes and hands out
// URLs with the same prefixes, so each mount points at its prefix
// subdirectory. The S3 backend serves from the bucket URL instead.
func mountUploads(engine *gin.Engine, cfg config.UploadConfig) {
	if cfg.Backend != "" && cfg.Backend != "local" {
		return
	}
	engine.Static("/"+storage.UploadPrefix, filepath.Join(cfg.Dir, storage.UploadPrefix))
	engine.Static("/"+storage.ThumbPrefix, filepath.Join(cfg.Dir, storage.ThumbPrefix))
}

// buildLimiters returns the contact, login, and chat rate limiters, or
// nils when rate limiting is disabled. A configured Redis address
// shares counters across site processes; otherwise counters are
// in-memory.
func buildLimiters(cfg config.RateLimitConfig, log *zap.Logger) (middleware.Limiter, middleware.Limiter, middleware.Limiter) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return middleware.NewRedisRateLimiter(rdb, "contact", cfg.ContactRequests, cfg.ContactWindow, log),
			middleware.NewRedisRateLimiter(rdb, "login", cfg.LoginRequests, cfg.LoginWindow, log),
			middleware.NewRedisRateLimiter(rdb, "chat", cfg.ChatRequests, cfg.ChatWindow, log)
	}

	return middleware.NewRateLimiter(cfg.ContactRequests, cfg.ContactWindow),
		middleware.NewRateLimiter(cfg.LoginRequests, cfg.LoginWindow),
		middleware.NewRateLimiter(cfg.ChatRequests, cfg.ChatWindow)
}
