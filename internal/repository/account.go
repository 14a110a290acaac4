package repository

import (
	"context"
	"time"

	"boardsite/internal/models"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account-related database operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	// RecordFailedLogin increments the failed-login counter in a single store-side
	// update and deactivates the account once the counter reaches maxAttempts.
	// It returns the counter and active flag as persisted.
	RecordFailedLogin(ctx context.Context, id uuid.UUID, at time.Time, maxAttempts int) (attempts int, active bool, err error)
	// RecordSuccessfulLogin resets the counter and stores the attempt time.
	// A nil ip leaves the stored address untouched.
	RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time, ip *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
