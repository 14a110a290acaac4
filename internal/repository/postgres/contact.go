package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"boardsite/internal/models"
	"boardsite/internal/repository"

	"github.com/google/uuid"
)

const contactColumns = `id, name, email, phone, message, status, created_at`

type contactRepository struct {
	repository.BaseRepository
}

// NewContactRepository creates a new PostgreSQL inquiry repository
func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &contactRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func scanContact(row rowScanner) (*models.Contact, error) {
	contact := &models.Contact{}
	err := row.Scan(
		&contact.ID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.Message,
		&contact.Status,
		&contact.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (id, name, email, phone, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	if contact.Status == "" {
		contact.Status = models.ContactStatusPending
	}
	now := time.Now().UTC()

	_, err := r.DB().ExecContext(ctx, query,
		contact.ID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Message,
		string(contact.Status),
		now,
	)
	if err != nil {
		return err
	}

	contact.CreatedAt = now
	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	contact, err := scanContact(r.DB().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.Contact, error) {
	query := `UPDATE contacts SET status = $1 WHERE id = $2 RETURNING ` + contactColumns

	contact, err := scanContact(r.DB().QueryRowContext(ctx, query, string(status), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.ExecAffecting(ctx, repository.ErrContactNotFound, `DELETE FROM contacts WHERE id = $1`, id)
}

func (r *contactRepository) List(ctx context.Context) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY created_at DESC, id`

	rows, err := r.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contacts, nil
}
