package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/webgarden/platform/internal/domain/identity"
)

// LoginInput contains credentials for a login attempt
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// AccountDTO represents account data returned to callers
type AccountDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	Locked      bool       `json:"locked"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AccountListResult represents a paginated account list
type AccountListResult struct {
	Accounts   []AccountDTO `json:"accounts"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

func toAccountDTO(account *identity.Account) *AccountDTO {
	return &AccountDTO{
		ID:          account.ID,
		Username:    account.Username,
		Email:       account.Email,
		Role:        string(account.Role),
		Active:      account.Active,
		Locked:      account.IsLocked(),
		LastLoginAt: account.LastLoginAt,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}
