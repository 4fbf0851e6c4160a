package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/webgarden/platform/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the access level of an account
type Role string

const (
	RoleAdmin  Role = "admin"  // Full access including account management
	RoleEditor Role = "editor" // Content and inquiry management only
)

// Password cost for bcrypt
const bcryptCost = 12

// Account represents a staff login for a site's admin area
// It is the aggregate root for authentication and access control
type Account struct {
	shared.BaseEntity
	Username       string
	Email          string
	PasswordHash   string
	Role           Role
	Active         bool
	LastLoginAt    *time.Time
	LastLoginIP    string
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewAccount creates a new active account with required fields
func NewAccount(username, email, password string, role Role) (*Account, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if role != RoleAdmin && role != RoleEditor {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin or editor")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &Account{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     strings.ToLower(strings.TrimSpace(username)),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
	}, nil
}

// SetEmail sets the account's email
func (a *Account) SetEmail(email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	a.Email = strings.ToLower(strings.TrimSpace(email))
	a.UpdatedAt = time.Now()

	return nil
}

// ChangePassword changes the password after verifying the current one
func (a *Account) ChangePassword(oldPassword, newPassword string) error {
	if !a.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}

	return a.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (a *Account) SetPassword(newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now()

	return nil
}

// VerifyPassword verifies if the provided password matches
func (a *Account) VerifyPassword(password string) bool {
	return verifyPassword(a.PasswordHash, password)
}

// SetRole changes the account's role
func (a *Account) SetRole(role Role) error {
	if role != RoleAdmin && role != RoleEditor {
		return shared.NewDomainError("INVALID_ROLE", "Role must be admin or editor")
	}

	a.Role = role
	a.UpdatedAt = time.Now()

	return nil
}

// Activate re-enables a deactivated account
func (a *Account) Activate() error {
	if a.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Account is already active")
	}

	a.Active = true
	a.FailedAttempts = 0
	a.LockedUntil = nil
	a.UpdatedAt = time.Now()

	return nil
}

// Deactivate disables the account without deleting it
func (a *Account) Deactivate() error {
	if !a.Active {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "Account is already deactivated")
	}

	a.Active = false
	a.UpdatedAt = time.Now()

	return nil
}

// Unlock clears a lockout before it expires
func (a *Account) Unlock() error {
	if !a.IsLocked() {
		return shared.NewDomainError("NOT_LOCKED", "Account is not locked")
	}

	a.FailedAttempts = 0
	a.LockedUntil = nil
	a.UpdatedAt = time.Now()

	return nil
}

// RecordLoginSuccess records a successful login
func (a *Account) RecordLoginSuccess(ip string) {
	now := time.Now()
	a.LastLoginAt = &now
	a.LastLoginIP = ip
	a.FailedAttempts = 0
	a.LockedUntil = nil
	a.UpdatedAt = now
}

// RecordLoginFailure records a failed login attempt
// Returns true if the account became locked
func (a *Account) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	a.FailedAttempts++
	a.UpdatedAt = time.Now()

	if a.FailedAttempts >= maxAttempts {
		lockedUntil := time.Now().Add(lockDuration)
		a.LockedUntil = &lockedUntil
		return true
	}

	return false
}

// IsLocked returns true if the account is currently locked out
func (a *Account) IsLocked() bool {
	return a.LockedUntil != nil && time.Now().Before(*a.LockedUntil)
}

// IsAdmin returns true if the account has the admin role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanLogin returns true if the account may start a session
func (a *Account) CanLogin() bool {
	return a.Active && !a.IsLocked()
}

// Validation functions

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 80 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 80 characters")
	}

	// Allow alphanumeric, underscore, hyphen, and dot
	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}

	return nil
}

// ValidatePassword checks the password policy shared by signup and resets
func ValidatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	// Check for at least one letter and one number
	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	// Basic email validation
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
