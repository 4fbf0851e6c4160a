package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/domain/identity"
	"github.com/webgarden/platform/internal/domain/shared"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // failed attempts before lock
	LockDuration     time.Duration // lock length after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles session authentication operations
type AuthService struct {
	accountRepo identity.AccountRepository
	config      AuthServiceConfig
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	accountRepo identity.AccountRepository,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		config:      config,
		logger:      logger,
	}
}

// Login verifies credentials and returns the account on success. The
// session itself is established by the HTTP layer.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AccountDTO, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username))

	account, err := s.accountRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("Account not found during login", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !account.CanLogin() {
		if account.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	if !account.VerifyPassword(input.Password) {
		locked := account.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.accountRepo.Update(ctx, account); err != nil {
			s.logger.Error("Failed to update account after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("Account locked after repeated failed logins",
				zap.String("username", input.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		s.logger.Warn("Invalid password attempt",
			zap.String("username", input.Username),
			zap.Int("failed_attempts", account.FailedAttempts))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	account.RecordLoginSuccess(input.IP)
	if err := s.accountRepo.Update(ctx, account); err != nil {
		// the login still succeeds, only the audit fields are stale
		s.logger.Error("Failed to update account after successful login", zap.Error(err))
	}

	s.logger.Info("Login successful",
		zap.String("username", account.Username),
		zap.String("account_id", account.ID.String()))

	return toAccountDTO(account), nil
}

// ChangePassword updates an account's password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find account")
	}

	if err := account.ChangePassword(currentPassword, newPassword); err != nil {
		return err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("Failed to save new password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	s.logger.Info("Password changed", zap.String("account_id", accountID.String()))
	return nil
}
