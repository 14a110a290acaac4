package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"boardsite/internal/models"
	"boardsite/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const accountColumns = `id, username, password_hash, is_active, failed_login_attempts,
		last_login_attempt, ip_address, created_at, updated_at`

// uniqueViolation is the SQLSTATE postgres reports for a unique index conflict
const uniqueViolation = "23505"

type accountRepository struct {
	repository.BaseRepository
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.IsActive,
		&account.FailedLoginAttempts,
		&account.LastLoginAttempt,
		&account.IPAddress,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (
			id, username, password_hash, is_active, failed_login_attempts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $6)`

	now := time.Now().UTC()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	_, err := r.DB().ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.IsActive,
		account.FailedLoginAttempts,
		now,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrUsernameExists
		}
		return err
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.DB().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

	account, err := scanAccount(r.DB().QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) RecordFailedLogin(ctx context.Context, id uuid.UUID, at time.Time, maxAttempts int) (int, bool, error) {
	// SET expressions see the row as it was before the update, so the
	// increment and the deactivation are decided on the same value.
	query := `
		UPDATE accounts
		SET failed_login_attempts = failed_login_attempts + 1,
			last_login_attempt = $2,
			is_active = CASE WHEN failed_login_attempts + 1 >= $3 THEN false ELSE is_active END,
			updated_at = $2
		WHERE id = $1
		RETURNING failed_login_attempts, is_active`

	var attempts int
	var active bool
	err := r.DB().QueryRowContext(ctx, query, id, at, maxAttempts).Scan(&attempts, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, repository.ErrAccountNotFound
	}
	if err != nil {
		return 0, false, err
	}
	return attempts, active, nil
}

func (r *accountRepository) RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time, ip *string) error {
	query := `
		UPDATE accounts
		SET failed_login_attempts = 0,
			last_login_attempt = $2,
			ip_address = COALESCE($3, ip_address),
			updated_at = $2
		WHERE id = $1`

	return r.ExecAffecting(ctx, repository.ErrAccountNotFound, query, id, at, ip)
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.ExecAffecting(ctx, repository.ErrAccountNotFound, `DELETE FROM accounts WHERE id = $1`, id)
}
