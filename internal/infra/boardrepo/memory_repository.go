package boardrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crobro234/wuebuddy/internal/domain/board"
)

// MemoryRepository is an in-memory board.Repository used for tests/dev.
type MemoryRepository struct {
	mu          sync.RWMutex
	nextID      int64
	posts       map[int64]board.Post
	attachments map[uuid.UUID]board.Attachment
}

// NewMemoryRepository constructs a repository backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:      1,
		posts:       make(map[int64]board.Post),
		attachments: make(map[uuid.UUID]board.Attachment),
	}
}

// Create implements board.Repository.
func (r *MemoryRepository) Create(_ context.Context, title, content string, createdAt time.Time) (board.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post := board.Post{ID: r.nextID, Title: title, Content: content, CreatedAt: createdAt}
	r.nextID++
	r.posts[post.ID] = post
	return post, nil
}

// List implements board.Repository, newest first.
func (r *MemoryRepository) List(_ context.Context) ([]board.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]board.Post, 0, len(r.posts))
	for _, post := range r.posts {
		out = append(out, post)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get implements board.Repository.
func (r *MemoryRepository) Get(_ context.Context, id int64) (board.Post, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.posts[id]
	return post, ok, nil
}

// CreateAttachment implements board.Repository.
func (r *MemoryRepository) CreateAttachment(_ context.Context, attachment board.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments[attachment.ID] = attachment
	return nil
}

// ListAttachments implements board.Repository.
func (r *MemoryRepository) ListAttachments(_ context.Context, postID int64) ([]board.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []board.Attachment
	for _, attachment := range r.attachments {
		if attachment.PostID == postID {
			out = append(out, attachment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// GetAttachment implements board.Repository.
func (r *MemoryRepository) GetAttachment(_ context.Context, id uuid.UUID) (board.Attachment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	attachment, ok := r.attachments[id]
	return attachment, ok, nil
}

var _ board.Repository = (*MemoryRepository)(nil)
