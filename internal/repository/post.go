package repository

import (
	"context"

	"boardsite/internal/models"

	"github.com/google/uuid"
)

// PostRepository defines the interface for post-related database operations
type PostRepository interface {
	// Create stores a post. A zero Number is replaced by the next free ordinal.
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	// IncrementViews atomically adds one view and returns the updated post
	IncrementViews(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Post, error)
}
