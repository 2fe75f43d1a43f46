package boardrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crobro234/wuebuddy/internal/domain/board"
)

// PostgresRepository persists posts and attachments in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a post row.
func (r *PostgresRepository) Create(ctx context.Context, title, content string, createdAt time.Time) (board.Post, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, content, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, title, content, created_at
	`, title, content, createdAt)
	return scanPost(row)
}

// List returns all posts newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]board.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []board.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	return out, rows.Err()
}

// Get fetches a post by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (board.Post, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, created_at
		FROM posts
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return board.Post{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return board.Post{}, false, rows.Err()
	}
	post, err := scanPost(rows)
	if err != nil {
		return board.Post{}, false, err
	}
	return post, true, rows.Err()
}

// CreateAttachment records attachment metadata.
func (r *PostgresRepository) CreateAttachment(ctx context.Context, attachment board.Attachment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO post_attachments (id, post_id, file_name, storage_key, size_bytes, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, attachment.ID, attachment.PostID, attachment.FileName, attachment.StorageKey, attachment.SizeBytes, attachment.MimeType, attachment.CreatedAt)
	return err
}

// ListAttachments returns attachment metadata for one post.
func (r *PostgresRepository) ListAttachments(ctx context.Context, postID int64) ([]board.Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, post_id, file_name, storage_key, size_bytes, mime_type, created_at
		FROM post_attachments
		WHERE post_id = $1
		ORDER BY created_at
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []board.Attachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, attachment)
	}
	return out, rows.Err()
}

// GetAttachment fetches one attachment by id.
func (r *PostgresRepository) GetAttachment(ctx context.Context, id uuid.UUID) (board.Attachment, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, post_id, file_name, storage_key, size_bytes, mime_type, created_at
		FROM post_attachments
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return board.Attachment{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return board.Attachment{}, false, rows.Err()
	}
	attachment, err := scanAttachment(rows)
	if err != nil {
		return board.Attachment{}, false, err
	}
	return attachment, true, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (board.Post, error) {
	var post board.Post
	var created time.Time
	if err := row.Scan(&post.ID, &post.Title, &post.Content, &created); err != nil {
		return board.Post{}, err
	}
	post.CreatedAt = created.UTC()
	return post, nil
}

func scanAttachment(row rowScanner) (board.Attachment, error) {
	var attachment board.Attachment
	var created time.Time
	if err := row.Scan(&attachment.ID, &attachment.PostID, &attachment.FileName, &attachment.StorageKey, &attachment.SizeBytes, &attachment.MimeType, &created); err != nil {
		return board.Attachment{}, err
	}
	attachment.CreatedAt = created.UTC()
	return attachment, nil
}

var _ board.Repository = (*PostgresRepository)(nil)
