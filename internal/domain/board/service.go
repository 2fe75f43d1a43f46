package board

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/crobro234/wuebuddy/pkg/errors"
	"github.com/crobro234/wuebuddy/pkg/util"
)

const maxAttachmentBytes = 5 << 20

// Service exposes the bulletin board.
type Service interface {
	List(ctx context.Context) ([]Post, error)
	Create(ctx context.Context, req CreateRequest) (Post, error)
	AttachFile(ctx context.Context, postID int64, fileName, mimeType string, data []byte) (Attachment, error)
	Attachments(ctx context.Context, postID int64) ([]Attachment, error)
	OpenAttachment(ctx context.Context, attachmentID uuid.UUID) (Attachment, io.ReadCloser, error)
}

type service struct {
	repo    Repository
	storage ObjectStorage
	logger  *slog.Logger
}

// NewService wires the board domain.
func NewService(repo Repository, storage ObjectStorage, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		storage: storage,
		logger:  logger.With("component", "board.service"),
	}
}

func (s *service) List(ctx context.Context) ([]Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("board_error", "failed to list posts", err)
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Post, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" {
		return Post{}, apperrors.Wrap("invalid_input", "title cannot be empty", nil)
	}
	if content == "" {
		return Post{}, apperrors.Wrap("invalid_input", "content cannot be empty", nil)
	}
	post, err := s.repo.Create(ctx, title, content, util.NowUTC())
	if err != nil {
		return Post{}, apperrors.Wrap("board_error", "failed to create post", err)
	}
	return post, nil
}

func (s *service) AttachFile(ctx context.Context, postID int64, fileName, mimeType string, data []byte) (Attachment, error) {
	if len(data) == 0 {
		return Attachment{}, apperrors.Wrap("invalid_input", "attachment cannot be empty", nil)
	}
	if len(data) > maxAttachmentBytes {
		return Attachment{}, apperrors.Wrap("invalid_input", "attachment exceeds size limit", nil)
	}
	if _, found, err := s.repo.Get(ctx, postID); err != nil {
		return Attachment{}, apperrors.Wrap("board_error", "failed to load post", err)
	} else if !found {
		return Attachment{}, apperrors.Wrap("not_found", "post not found", nil)
	}

	id := uuid.New()
	key := fmt.Sprintf("posts/%d/%s", postID, id)
	stored, err := s.storage.Put(ctx, key, data, mimeType)
	if err != nil {
		return Attachment{}, apperrors.Wrap("board_error", "failed to store attachment", err)
	}

	attachment := Attachment{
		ID:         id,
		PostID:     postID,
		FileName:   strings.TrimSpace(fileName),
		SizeBytes:  stored.Size,
		MimeType:   stored.MimeType,
		CreatedAt:  util.NowUTC(),
		StorageKey: stored.Key,
	}
	if err := s.repo.CreateAttachment(ctx, attachment); err != nil {
		if delErr := s.storage.Delete(ctx, stored.Key); delErr != nil {
			s.logger.Warn("orphaned attachment blob", "key", stored.Key, "error", delErr)
		}
		return Attachment{}, apperrors.Wrap("board_error", "failed to record attachment", err)
	}
	return attachment, nil
}

func (s *service) Attachments(ctx context.Context, postID int64) ([]Attachment, error) {
	if _, found, err := s.repo.Get(ctx, postID); err != nil {
		return nil, apperrors.Wrap("board_error", "failed to load post", err)
	} else if !found {
		return nil, apperrors.Wrap("not_found", "post not found", nil)
	}
	attachments, err := s.repo.ListAttachments(ctx, postID)
	if err != nil {
		return nil, apperrors.Wrap("board_error", "failed to list attachments", err)
	}
	if attachments == nil {
		attachments = []Attachment{}
	}
	return attachments, nil
}

func (s *service) OpenAttachment(ctx context.Context, attachmentID uuid.UUID) (Attachment, io.ReadCloser, error) {
	attachment, found, err := s.repo.GetAttachment(ctx, attachmentID)
	if err != nil {
		return Attachment{}, nil, apperrors.Wrap("board_error", "failed to load attachment", err)
	}
	if !found {
		return Attachment{}, nil, apperrors.Wrap("not_found", "attachment not found", nil)
	}
	reader, err := s.storage.Get(ctx, attachment.StorageKey)
	if err != nil {
		return Attachment{}, nil, apperrors.Wrap("board_error", "failed to open attachment", err)
	}
	return attachment, reader, nil
}
