package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"boardsite/internal/models"
	"boardsite/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var accountRowColumns = []string{
	"id", "username", "password_hash", "is_active", "failed_login_attempts",
	"last_login_attempt", "ip_address", "created_at", "updated_at",
}

func TestAccountRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "inserted"},
		{name: "duplicate username", dbErr: &pq.Error{Code: "23505"}, wantErr: repository.ErrUsernameExists},
		{name: "other failure", dbErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewAccountRepository(db)

			exec := mock.ExpectExec(`INSERT INTO accounts`).
				WithArgs(sqlmock.AnyArg(), "alice", "hash", true, 0, sqlmock.AnyArg())
			if tt.dbErr != nil {
				exec.WillReturnError(tt.dbErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			account := &models.Account{Username: "alice", PasswordHash: "hash", IsActive: true}
			err := repo.Create(context.Background(), account)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.dbErr != nil:
				require.Error(t, err)
				require.NotErrorIs(t, err, repository.ErrUsernameExists)
			default:
				require.NoError(t, err)
				require.NotEqual(t, uuid.Nil, account.ID)
				require.False(t, account.CreatedAt.IsZero())
			}
		})
	}
}

func TestAccountRepository_GetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(accountRowColumns).
			AddRow(id.String(), "alice", "hash", true, 2, now, nil, now, now))

	account, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, id, account.ID)
	require.Equal(t, 2, account.FailedLoginAttempts)
	require.NotNil(t, account.LastLoginAttempt)
	require.Nil(t, account.IPAddress)

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(accountRowColumns))

	_, err := repo.GetByID(context.Background(), id)
	require.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_RecordFailedLogin(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	id := uuid.New()
	at := time.Now().UTC()
	mock.ExpectQuery(`UPDATE accounts\s+SET failed_login_attempts = failed_login_attempts \+ 1.*RETURNING failed_login_attempts, is_active`).
		WithArgs(id, at, 5).
		WillReturnRows(sqlmock.NewRows([]string{"failed_login_attempts", "is_active"}).AddRow(5, false))

	attempts, active, err := repo.RecordFailedLogin(context.Background(), id, at, 5)
	require.NoError(t, err)
	require.Equal(t, 5, attempts)
	require.False(t, active)

	mock.ExpectQuery(`UPDATE accounts`).
		WithArgs(id, at, 5).
		WillReturnError(sql.ErrNoRows)

	_, _, err = repo.RecordFailedLogin(context.Background(), id, at, 5)
	require.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_RecordSuccessfulLogin(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	id := uuid.New()
	at := time.Now().UTC()
	ip := "203.0.113.7"

	mock.ExpectExec(`UPDATE accounts\s+SET failed_login_attempts = 0.*COALESCE\(\$3, ip_address\)`).
		WithArgs(id, at, ip).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.RecordSuccessfulLogin(context.Background(), id, at, &ip))

	mock.ExpectExec(`UPDATE accounts`).
		WithArgs(id, at, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.RecordSuccessfulLogin(context.Background(), id, at, nil)
	require.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), id))

	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), id), repository.ErrAccountNotFound)
}
