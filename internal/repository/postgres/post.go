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

const postColumns = `id, number, title, content, file_urls, views, created_at, updated_at`

type postRepository struct {
	repository.BaseRepository
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &postRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func scanPost(row rowScanner) (*models.Post, error) {
	post := &models.Post{}
	err := row.Scan(
		&post.ID,
		&post.Number,
		&post.Title,
		&post.Content,
		pq.Array(&post.FileURLs),
		&post.Views,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if post.FileURLs == nil {
		post.FileURLs = []string{}
	}
	return post, nil
}

// fileURLs keeps the NOT NULL column satisfied for posts without attachments
func fileURLs(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	// Number is a display ordinal only. The next value is computed inside the
	// insert and nothing enforces uniqueness.
	query := `
		INSERT INTO posts (id, number, title, content, file_urls, views, created_at, updated_at)
		VALUES (
			$1,
			COALESCE(NULLIF($2, 0), (SELECT COALESCE(MAX(number), 0) + 1 FROM posts)),
			$3, $4, $5, 0, $6, $6
		)
		RETURNING number`

	now := time.Now().UTC()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	post.FileURLs = fileURLs(post.FileURLs)

	err := r.DB().QueryRowContext(ctx, query,
		post.ID,
		post.Number,
		post.Title,
		post.Content,
		pq.Array(post.FileURLs),
		now,
	).Scan(&post.Number)
	if err != nil {
		return err
	}

	post.Views = 0
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.DB().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `UPDATE posts SET views = views + 1 WHERE id = $1 RETURNING ` + postColumns

	post, err := scanPost(r.DB().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1,
			content = $2,
			file_urls = $3,
			updated_at = $4
		WHERE id = $5
		RETURNING ` + postColumns

	updated, err := scanPost(r.DB().QueryRowContext(ctx, query,
		post.Title,
		post.Content,
		pq.Array(fileURLs(post.FileURLs)),
		time.Now().UTC(),
		post.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrPostNotFound
	}
	if err != nil {
		return err
	}

	*post = *updated
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.ExecAffecting(ctx, repository.ErrPostNotFound, `DELETE FROM posts WHERE id = $1`, id)
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id`

	rows, err := r.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}
