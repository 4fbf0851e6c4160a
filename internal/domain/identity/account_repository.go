package identity

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *Account) error

	// Update updates an existing account
	Update(ctx context.Context, account *Account) error

	// Delete deletes an account by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByUsername finds an account by username
	FindByUsername(ctx context.Context, username string) (*Account, error)

	// FindByEmail finds an account by email
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindAll returns all accounts with pagination
	FindAll(ctx context.Context, filter AccountFilter) ([]*Account, int64, error)

	// ExistsByUsername checks if a username already exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Count returns the total number of accounts
	Count(ctx context.Context) (int64, error)

	// CountAdmins returns the number of active admin accounts
	CountAdmins(ctx context.Context) (int64, error)
}

// AccountFilter contains filter options for querying accounts
type AccountFilter struct {
	// Search keyword for username or email
	Keyword string

	// Filter by role
	Role *Role

	// Filter by active flag
	Active *bool

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewAccountFilter creates a new AccountFilter with default values
func NewAccountFilter() AccountFilter {
	return AccountFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithKeyword sets the search keyword
func (f AccountFilter) WithKeyword(keyword string) AccountFilter {
	f.Keyword = keyword
	return f
}

// WithRole sets the role filter
func (f AccountFilter) WithRole(role Role) AccountFilter {
	f.Role = &role
	return f
}

// WithActive sets the active filter
func (f AccountFilter) WithActive(active bool) AccountFilter {
	f.Active = &active
	return f
}

// WithPagination sets pagination parameters
func (f AccountFilter) WithPagination(page, pageSize int) AccountFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f AccountFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f AccountFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
