package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/domain/identity"
	"github.com/webgarden/platform/internal/domain/shared"
)

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

func createTestAccount(t *testing.T) *identity.Account {
	t.Helper()
	account, err := identity.NewAccount("editor1", "editor1@example.com", "Password123", identity.RoleEditor)
	require.NoError(t, err)
	return account
}

func createAuthService(repo *MockAccountRepository) *AuthService {
	return NewAuthService(repo, DefaultAuthServiceConfig(), zap.NewNop())
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)

	account := createTestAccount(t)
	repo.On("FindByUsername", ctx, "editor1").Return(account, nil)
	repo.On("Update", ctx, account).Return(nil)

	result, err := createAuthService(repo).Login(ctx, LoginInput{
		Username: "editor1",
		Password: "Password123",
		IP:       "203.0.113.9",
	})

	require.NoError(t, err)
	assert.Equal(t, "editor1", result.Username)
	assert.Equal(t, "editor", result.Role)
	assert.Equal(t, "203.0.113.9", account.LastLoginIP)
	assert.NotNil(t, account.LastLoginAt)
	repo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)

	account := createTestAccount(t)
	repo.On("FindByUsername", ctx, "editor1").Return(account, nil)
	repo.On("Update", ctx, account).Return(nil)

	_, err := createAuthService(repo).Login(ctx, LoginInput{
		Username: "editor1",
		Password: "wrongpassword",
	})

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	assert.Equal(t, 1, account.FailedAttempts)
}

func TestAuthService_Login_UnknownUsername(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)

	repo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

	_, err := createAuthService(repo).Login(ctx, LoginInput{
		Username: "ghost",
		Password: "Password123",
	})

	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	// same error as a wrong password so usernames cannot be probed
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_LocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)

	account := createTestAccount(t)
	repo.On("FindByUsername", ctx, "editor1").Return(account, nil)
	repo.On("Update", ctx, account).Return(nil)

	svc := createAuthService(repo)
	input := LoginInput{Username: "editor1", Password: "wrongpassword"}

	for i := 0; i < 4; i++ {
		_, err := svc.Login(ctx, input)
		require.Error(t, err)
		assert.Equal(t, "INVALID_CREDENTIALS", err.(*shared.DomainError).Code)
	}

	_, err := svc.Login(ctx, input)
	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_LOCKED", err.(*shared.DomainError).Code)
	assert.True(t, account.IsLocked())

	// correct credentials are still rejected while locked
	_, err = svc.Login(ctx, LoginInput{Username: "editor1", Password: "Password123"})
	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_LOCKED", err.(*shared.DomainError).Code)
}

func TestAuthService_Login_ExpiredLockAllowsLogin(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)

	account := createTestAccount(t)
	past := time.Now().Add(-time.Minute)
	account.LockedUntil = &past
	account.FailedAttempts = 5

	repo.On("FindByUsername", ctx, "editor1").Return(account, nil)
	repo.On("Update", ctx, account).Return(nil)

	result, err := createAuthService(repo).Login(ctx, LoginInput{
		Username: "editor1",
		Password: "Password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "editor1", result.Username)
	assert.Equal(t, 0, account.FailedAttempts)
	assert.Nil(t, account.LockedUntil)
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)

	account := createTestAccount(t)
	require.NoError(t, account.Deactivate())
	repo.On("FindByUsername", ctx, "editor1").Return(account, nil)

	_, err := createAuthService(repo).Login(ctx, LoginInput{
		Username: "editor1",
		Password: "Password123",
	})

	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_INACTIVE", err.(*shared.DomainError).Code)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)

	account := createTestAccount(t)
	repo.On("FindByID", ctx, account.ID).Return(account, nil)
	repo.On("Update", ctx, account).Return(nil)

	svc := createAuthService(repo)

	t.Run("wrong current password rejected", func(t *testing.T) {
		err := svc.ChangePassword(ctx, account.ID, "nope", "NewPassword1")
		require.Error(t, err)
		assert.True(t, account.VerifyPassword("Password123"))
	})

	t.Run("changes with correct current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, account.ID, "Password123", "NewPassword1")
		require.NoError(t, err)
		assert.True(t, account.VerifyPassword("NewPassword1"))
	})
}
