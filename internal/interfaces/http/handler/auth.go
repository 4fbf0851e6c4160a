package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/application/identity"
	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/interfaces/http/middleware"
)

// LoginForm binds the admin login form fields
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// AuthHandler serves the admin sign-in pages
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	site        config.SiteConfig
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, site config.SiteConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		site:        site,
		logger:      logger,
	}
}

// ShowLogin handles GET /admin/login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if _, ok := middleware.CurrentAccountID(c); ok {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	h.render(c, http.StatusOK, gin.H{"Next": c.Query("next")})
}

// Login handles POST /admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, gin.H{"Error": "Please enter your username and password."})
		return
	}

	account, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Username: form.Username,
		Password: form.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.render(c, http.StatusUnauthorized, gin.H{
			"Error":    errorMessage(err),
			"Username": form.Username,
			"Next":     form.Next,
		})
		return
	}

	if err := middleware.SignIn(c, account.ID, account.Username, account.Role); err != nil {
		h.logger.Error("Failed to persist session", zap.Error(err))
		h.render(c, http.StatusInternalServerError, gin.H{"Error": "Sign-in failed. Please try again."})
		return
	}

	c.Redirect(http.StatusFound, safeNext(form.Next))
}

// Logout handles POST /admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.SignOut(c); err != nil {
		h.logger.Warn("Failed to clear session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/admin/login")
}

// safeNext keeps post-login redirects on this site. Anything that is
// not a plain local path falls back to the dashboard.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/admin"
	}
	return next
}

func (h *AuthHandler) render(c *gin.Context, status int, data gin.H) {
	data["Site"] = h.site
	data["CSRFToken"] = middleware.CSRFToken(c)
	c.HTML(status, "admin_login.html", data)
}
