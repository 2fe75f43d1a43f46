package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/crobro234/wuebuddy/internal/domain/board"
)

type memoryObject struct {
	data     []byte
	mimeType string
}

// MemoryStorage holds attachment blobs in process memory for tests/dev.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryStorage constructs an in-memory blob store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]memoryObject)}
}

// Put implements board.ObjectStorage.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, mimeType string) (board.StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = memoryObject{data: buf, mimeType: mimeType}
	return board.StoredObject{
		Key:      key,
		Size:     int64(len(buf)),
		MimeType: mimeType,
	}, nil
}

// Get implements board.ObjectStorage.
func (s *MemoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete implements board.ObjectStorage.
func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

var _ board.ObjectStorage = (*MemoryStorage)(nil)
