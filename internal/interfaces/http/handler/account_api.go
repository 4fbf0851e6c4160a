package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/application/identity"
	identitydomain "github.com/webgarden/platform/internal/domain/identity"
	"github.com/webgarden/platform/internal/interfaces/http/dto"
)

// CreateAccountRequest is the payload for creating an account
type CreateAccountRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UpdateAccountRequest is the payload for updating an account
type UpdateAccountRequest struct {
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// SetActiveRequest is the payload for activating or deactivating an account
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ResetPasswordRequest is the payload for an admin password reset
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the payload for a self-service password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// AccountAPIHandler handles the admin account JSON endpoints
type AccountAPIHandler struct {
	BaseHandler
	accountService *identity.AccountService
	authService    *identity.AuthService
	logger         *zap.Logger
}

// NewAccountAPIHandler creates a new account API handler
func NewAccountAPIHandler(accountService *identity.AccountService, authService *identity.AuthService, logger *zap.Logger) *AccountAPIHandler {
	return &AccountAPIHandler{
		accountService: accountService,
		authService:    authService,
		logger:         logger,
	}
}

// List handles GET /admin/api/accounts
func (h *AccountAPIHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	req.Normalize()

	result, err := h.accountService.List(c.Request.Context(), identitydomain.AccountFilter{
		Keyword:  req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Accounts, result.Total, result.Page, result.PageSize)
}

// Create handles POST /admin/api/accounts
func (h *AccountAPIHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Username, email, password, and role are required")
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), identity.CreateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// Update handles PUT /admin/api/accounts/:id
func (h *AccountAPIHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.Update(c.Request.Context(), identity.UpdateAccountInput{
		ID:    id,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// SetActive handles POST /admin/api/accounts/:id/active
func (h *AccountAPIHandler) SetActive(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		h.BadRequest(c, "An active flag is required")
		return
	}

	account, err := h.accountService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Unlock handles POST /admin/api/accounts/:id/unlock
func (h *AccountAPIHandler) Unlock(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.accountService.Unlock(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// ResetPassword handles POST /admin/api/accounts/:id/password
func (h *AccountAPIHandler) ResetPassword(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "A new password is required")
		return
	}

	if err := h.accountService.ResetPassword(c.Request.Context(), id, req.Password); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete handles DELETE /admin/api/accounts/:id
func (h *AccountAPIHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ChangePassword handles POST /admin/api/password. Any signed-in
// account can change its own password.
func (h *AccountAPIHandler) ChangePassword(c *gin.Context) {
	accountID, err := currentAccountID(c)
	if err != nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Sign in required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "The current and new passwords are required")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
