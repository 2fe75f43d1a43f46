package board

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Post is a community bulletin board entry. Posts are append-only.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attachment stores uploaded file metadata for a post.
type Attachment struct {
	ID        uuid.UUID `json:"id"`
	PostID    int64     `json:"postId"`
	FileName  string    `json:"fileName"`
	SizeBytes int64     `json:"sizeBytes"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`

	StorageKey string `json:"-"`
}

// CreateRequest captures a new post submission.
type CreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Repository persists posts and attachment metadata.
type Repository interface {
	Create(ctx context.Context, title, content string, createdAt time.Time) (Post, error)
	List(ctx context.Context) ([]Post, error)
	Get(ctx context.Context, id int64) (Post, bool, error)
	CreateAttachment(ctx context.Context, attachment Attachment) error
	ListAttachments(ctx context.Context, postID int64) ([]Attachment, error)
	GetAttachment(ctx context.Context, id uuid.UUID) (Attachment, bool, error)
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}

// ObjectStorage abstracts blob storage for attachments.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
