package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	assetapp "github.com/webgarden/platform/internal/application/asset"
	contentapp "github.com/webgarden/platform/internal/application/content"
	identityapp "github.com/webgarden/platform/internal/application/identity"
	inquiryapp "github.com/webgarden/platform/internal/application/inquiry"
	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/infrastructure/images"
	"github.com/webgarden/platform/internal/infrastructure/logger"
	"github.com/webgarden/platform/internal/infrastructure/mail"
	"github.com/webgarden/platform/internal/infrastructure/persistence"
	"github.com/webgarden/platform/internal/infrastructure/sanitize"
	"github.com/webgarden/platform/internal/infrastructure/storage"
	"github.com/webgarden/platform/internal/interfaces/http/router"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting WebGarden",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	inquiryRepo := persistence.NewGormInquiryRepository(db.DB)
	assetRepo := persistence.NewGormAssetRepository(db.DB)

	// Initialize shared infrastructure
	sanitizer := sanitize.New()
	processor := images.NewProcessor(cfg.Upload.MaxSize)
	store, err := storage.New(cfg.Upload, log)
	if err != nil {
		log.Fatal("Failed to initialize upload storage", zap.Error(err))
	}
	mailer := mail.New(cfg.Mail, cfg.Site, log)

	// Initialize application services
	accountService := identityapp.NewAccountService(accountRepo, log)
	authService := identityapp.NewAuthService(accountRepo, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxFailedAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	articleService := contentapp.NewArticleService(articleRepo, sanitizer, log)
	inquiryService := inquiryapp.NewInquiryService(inquiryRepo, sanitizer, mailer, log)
	assetService := assetapp.NewAssetService(assetRepo, processor, store, log)

	// Build the HTTP engine
	engine, err := router.New(cfg, db.DB, router.Services{
		Auth:      authService,
		Accounts:  accountService,
		Articles:  articleService,
		Inquiries: inquiryService,
		Assets:    assetService,
	}, log)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
