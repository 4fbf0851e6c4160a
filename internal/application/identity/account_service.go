package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/domain/identity"
	"github.com/webgarden/platform/internal/domain/shared"
)

// AccountService handles account management operations
type AccountService struct {
	accountRepo identity.AccountRepository
	logger      *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo identity.AccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateAccountInput contains input for creating an account
type CreateAccountInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateAccountInput contains input for updating an account
type UpdateAccountInput struct {
	ID    uuid.UUID
	Email *string
	Role  *string
}

// Create creates a new account
func (s *AccountService) Create(ctx context.Context, input CreateAccountInput) (*AccountDTO, error) {
	s.logger.Info("Creating account",
		zap.String("username", input.Username),
		zap.String("role", input.Role))

	exists, err := s.accountRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Error("Failed to check username existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "Username already exists")
	}

	exists, err = s.accountRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "Email already exists")
	}

	account, err := identity.NewAccount(input.Username, input.Email, input.Password, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		s.logger.Error("Failed to create account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	s.logger.Info("Account created",
		zap.String("account_id", account.ID.String()),
		zap.String("username", account.Username))

	return toAccountDTO(account), nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*AccountDTO, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		s.logger.Error("Failed to find account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find account")
	}
	return toAccountDTO(account), nil
}

// GetByUsername retrieves an account by username
func (s *AccountService) GetByUsername(ctx context.Context, username string) (*AccountDTO, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		s.logger.Error("Failed to find account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find account")
	}
	return toAccountDTO(account), nil
}

// List retrieves a paginated list of accounts
func (s *AccountService) List(ctx context.Context, filter identity.AccountFilter) (*AccountListResult, error) {
	accounts, total, err := s.accountRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list accounts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list accounts")
	}

	pageSize := filter.Limit()
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	dtos := make([]AccountDTO, len(accounts))
	for i, account := range accounts {
		dtos[i] = *toAccountDTO(account)
	}

	return &AccountListResult{
		Accounts:   dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update updates an account's email and role
func (s *AccountService) Update(ctx context.Context, input UpdateAccountInput) (*AccountDTO, error) {
	account, err := s.accountRepo.FindByID(ctx, input.ID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find account")
	}

	if input.Email != nil && *input.Email != account.Email {
		exists, err := s.accountRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
		}
		if exists {
			return nil, shared.NewDomainError("EMAIL_EXISTS", "Email already exists")
		}
		if err := account.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}

	if input.Role != nil && identity.Role(*input.Role) != account.Role {
		// demoting the last admin would lock everyone out of the admin UI
		if account.IsAdmin() {
			if err := s.ensureNotLastAdmin(ctx); err != nil {
				return nil, err
			}
		}
		if err := account.SetRole(identity.Role(*input.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("Failed to update account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update account")
	}

	s.logger.Info("Account updated", zap.String("account_id", input.ID.String()))
	return toAccountDTO(account), nil
}

// SetActive activates or deactivates an account
func (s *AccountService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*AccountDTO, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find account")
	}

	if active {
		err = account.Activate()
	} else {
		if account.IsAdmin() {
			if derr := s.ensureNotLastAdmin(ctx); derr != nil {
				return nil, derr
			}
		}
		err = account.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("Failed to update account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update account")
	}

	s.logger.Info("Account active flag changed",
		zap.String("account_id", id.String()),
		zap.Bool("active", active))
	return toAccountDTO(account), nil
}

// Unlock clears an account's lockout state
func (s *AccountService) Unlock(ctx context.Context, id uuid.UUID) (*AccountDTO, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find account")
	}

	if err := account.Unlock(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("Failed to unlock account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to unlock account")
	}

	s.logger.Info("Account unlocked", zap.String("account_id", id.String()))
	return toAccountDTO(account), nil
}

// ResetPassword sets a new password without requiring the current one
func (s *AccountService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find account")
	}

	if err := account.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("Failed to reset password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("Password reset", zap.String("account_id", id.String()))
	return nil
}

// Delete removes an account. The last active admin cannot be deleted.
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find account")
	}

	if account.IsAdmin() {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.accountRepo.Delete(ctx, account.ID); err != nil {
		s.logger.Error("Failed to delete account", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete account")
	}

	s.logger.Info("Account deleted", zap.String("account_id", id.String()))
	return nil
}

// Count returns the total number of accounts
func (s *AccountService) Count(ctx context.Context) (int64, error) {
	return s.accountRepo.Count(ctx)
}

func (s *AccountService) ensureNotLastAdmin(ctx context.Context) error {
	admins, err := s.accountRepo.CountAdmins(ctx)
	if err != nil {
		s.logger.Error("Failed to count admins", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to verify admin count")
	}
	if admins <= 1 {
		return shared.NewDomainError("LAST_ADMIN", "Cannot remove the last active administrator")
	}
	return nil
}
