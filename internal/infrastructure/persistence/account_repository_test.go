package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webgarden/platform/internal/domain/identity"
	"github.com/webgarden/platform/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestNewGormAccountRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		gormDB, _, mockDB := newMockDB(t)
		defer mockDB.Close()

		repo := NewGormAccountRepository(gormDB)

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormAccountRepository_FindByID(t *testing.T) {
	t.Run("finds existing account", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAccountRepository(gormDB)

		accountID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "active", "failed_attempts"}).
			AddRow(accountID, "keystone-admin", "admin@example.com", "$2a$12$hash", "admin", true, 0)

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(accountID, 1).
			WillReturnRows(rows)

		account, err := repo.FindByID(context.Background(), accountID)

		assert.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, accountID, account.ID)
		assert.Equal(t, "keystone-admin", account.Username)
		assert.Equal(t, identity.RoleAdmin, account.Role)
		assert.True(t, account.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing account", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAccountRepository(gormDB)

		accountID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(accountID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		account, err := repo.FindByID(context.Background(), accountID)

		assert.Error(t, err)
		assert.Nil(t, account)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccountRepository_FindByUsername(t *testing.T) {
	t.Run("lowercases the lookup", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAccountRepository(gormDB)

		accountID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "active", "failed_attempts"}).
			AddRow(accountID, "editor1", "editor@example.com", "$2a$12$hash", "editor", true, 0)

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE LOWER\(username\) = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("editor1", 1).
			WillReturnRows(rows)

		account, err := repo.FindByUsername(context.Background(), "Editor1")

		assert.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, "editor1", account.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccountRepository_FindByEmail(t *testing.T) {
	t.Run("empty email short-circuits to not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAccountRepository(gormDB)

		account, err := repo.FindByEmail(context.Background(), "")

		assert.Nil(t, account)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccountRepository_ExistsByUsername(t *testing.T) {
	t.Run("returns true when username is taken", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAccountRepository(gormDB)

		rows := sqlmock.NewRows([]string{"count"}).AddRow(1)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" WHERE LOWER\(username\) = \$1`).
			WithArgs("editor1").
			WillReturnRows(rows)

		exists, err := repo.ExistsByUsername(context.Background(), "editor1")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccountRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAccountRepository(gormDB)

		accountID := uuid.New()

		mock.ExpectExec(`DELETE FROM "accounts" WHERE id = \$1`).
			WithArgs(accountID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), accountID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccountRepository_CountAdmins(t *testing.T) {
	t.Run("counts active admins", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormAccountRepository(gormDB)

		rows := sqlmock.NewRows([]string{"count"}).AddRow(2)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" WHERE role = \$1 AND active = \$2`).
			WithArgs("admin", true).
			WillReturnRows(rows)

		count, err := repo.CountAdmins(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
