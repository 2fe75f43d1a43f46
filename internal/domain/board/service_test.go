package board

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "github.com/crobro234/wuebuddy/pkg/errors"
)

func TestCreate_TrimsAndStoresPost(t *testing.T) {
	svc, _ := newBoardUnderTest(t)

	post, err := svc.Create(context.Background(), CreateRequest{
		Title:   "  Selling a bike  ",
		Content: "  Good condition, 50 euro.  ",
	})
	require.NoError(t, err)
	require.Equal(t, "Selling a bike", post.Title)
	require.Equal(t, "Good condition, 50 euro.", post.Content)
	require.NotZero(t, post.ID)
	require.False(t, post.CreatedAt.IsZero())
}

func TestCreate_RejectsBlankFields(t *testing.T) {
	svc, _ := newBoardUnderTest(t)

	_, err := svc.Create(context.Background(), CreateRequest{Title: "   ", Content: "body"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Create(context.Background(), CreateRequest{Title: "title", Content: ""})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestList_NewestFirst(t *testing.T) {
	svc, repo := newBoardUnderTest(t)
	older := repo.addPost("older", "a", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := repo.addPost("newer", "b", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	posts, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, newer.ID, posts[0].ID)
	require.Equal(t, older.ID, posts[1].ID)
}

func TestList_EmptyBoard(t *testing.T) {
	svc, _ := newBoardUnderTest(t)

	posts, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, posts)
	require.Empty(t, posts)
}

func TestAttachFile_RoundTrip(t *testing.T) {
	svc, repo := newBoardUnderTest(t)
	post := repo.addPost("title", "content", time.Now().UTC())

	attachment, err := svc.AttachFile(context.Background(), post.ID, "flyer.pdf", "application/pdf", []byte("pdf-bytes"))
	require.NoError(t, err)
	require.Equal(t, post.ID, attachment.PostID)
	require.Equal(t, "flyer.pdf", attachment.FileName)
	require.Equal(t, int64(len("pdf-bytes")), attachment.SizeBytes)
	require.Equal(t, "application/pdf", attachment.MimeType)

	got, reader, err := svc.OpenAttachment(context.Background(), attachment.ID)
	require.NoError(t, err)
	defer reader.Close()
	require.Equal(t, attachment.ID, got.ID)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, []byte("pdf-bytes"), data)
}

func TestAttachFile_UnknownPost(t *testing.T) {
	svc, _ := newBoardUnderTest(t)

	_, err := svc.AttachFile(context.Background(), 42, "f.txt", "text/plain", []byte("x"))
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestAttachFile_SizeLimits(t *testing.T) {
	svc, repo := newBoardUnderTest(t)
	post := repo.addPost("title", "content", time.Now().UTC())

	_, err := svc.AttachFile(context.Background(), post.ID, "f.txt", "text/plain", nil)
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	oversized := make([]byte, maxAttachmentBytes+1)
	_, err = svc.AttachFile(context.Background(), post.ID, "f.bin", "application/octet-stream", oversized)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestAttachFile_CleansUpBlobWhenMetadataFails(t *testing.T) {
	repo := newFakeBoardRepo()
	repo.createAttachmentErr = errors.New("constraint violation")
	store := newFakeStorage()
	svc := NewService(repo, store, newTestLogger())
	post := repo.addPost("title", "content", time.Now().UTC())

	_, err := svc.AttachFile(context.Background(), post.ID, "f.txt", "text/plain", []byte("x"))
	require.True(t, apperrors.IsCode(err, "board_error"))
	require.Empty(t, store.objects)
}

func TestAttachments_UnknownPost(t *testing.T) {
	svc, _ := newBoardUnderTest(t)

	_, err := svc.Attachments(context.Background(), 42)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestOpenAttachment_Unknown(t *testing.T) {
	svc, _ := newBoardUnderTest(t)

	_, _, err := svc.OpenAttachment(context.Background(), uuid.New())
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func newBoardUnderTest(t *testing.T) (Service, *fakeBoardRepo) {
	t.Helper()
	repo := newFakeBoardRepo()
	return NewService(repo, newFakeStorage(), newTestLogger()), repo
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeBoardRepo struct {
	posts               map[int64]Post
	attachments         map[uuid.UUID]Attachment
	nextID              int64
	createAttachmentErr error
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{
		posts:       make(map[int64]Post),
		attachments: make(map[uuid.UUID]Attachment),
		nextID:      1,
	}
}

func (r *fakeBoardRepo) addPost(title, content string, createdAt time.Time) Post {
	post := Post{ID: r.nextID, Title: title, Content: content, CreatedAt: createdAt}
	r.posts[post.ID] = post
	r.nextID++
	return post
}

func (r *fakeBoardRepo) Create(_ context.Context, title, content string, createdAt time.Time) (Post, error) {
	return r.addPost(title, content, createdAt), nil
}

func (r *fakeBoardRepo) List(context.Context) ([]Post, error) {
	out := make([]Post, 0, len(r.posts))
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

func (r *fakeBoardRepo) Get(_ context.Context, id int64) (Post, bool, error) {
	post, ok := r.posts[id]
	return post, ok, nil
}

func (r *fakeBoardRepo) CreateAttachment(_ context.Context, attachment Attachment) error {
	if r.createAttachmentErr != nil {
		return r.createAttachmentErr
	}
	r.attachments[attachment.ID] = attachment
	return nil
}

func (r *fakeBoardRepo) ListAttachments(_ context.Context, postID int64) ([]Attachment, error) {
	out := make([]Attachment, 0)
	for _, attachment := range r.attachments {
		if attachment.PostID == postID {
			out = append(out, attachment)
		}
	}
	return out, nil
}

func (r *fakeBoardRepo) GetAttachment(_ context.Context, id uuid.UUID) (Attachment, bool, error) {
	attachment, ok := r.attachments[id]
	return attachment, ok, nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Put(_ context.Context, key string, data []byte, mimeType string) (StoredObject, error) {
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf
	return StoredObject{Key: key, Size: int64(len(buf)), MimeType: mimeType}, nil
}

func (s *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}
