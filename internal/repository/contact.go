package repository

import (
	"context"

	"boardsite/internal/models"

	"github.com/google/uuid"
)

// ContactRepository defines the interface for inquiry-related database operations
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Contact, error)
}
