package media

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store used by tests and local development. It
// fabricates stable URLs keyed by a generated delete ID.
type MemStore struct {
	mu      sync.Mutex
	blobs   map[string]string // deleteID -> URL
	uploads int
	deletes int

	// FailUploads makes every Upload fail; FailDeletes every Delete.
	FailUploads bool
	FailDeletes bool
}

// NewMemStore creates an empty in-memory media store.
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string]string)}
}

func (s *MemStore) Upload(_ context.Context, in Input, kind Kind) (*Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUploads {
		return nil, fmt.Errorf("mem store: uploads disabled")
	}
	if in == nil {
		return nil, fmt.Errorf("mem store: nil input")
	}

	id := uuid.NewString()
	url := fmt.Sprintf("https://media.local/%s/%s", kind, id)
	s.blobs[id] = url
	s.uploads++

	return &Upload{URL: url, DeleteID: id}, nil
}

func (s *MemStore) Delete(_ context.Context, deleteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDeletes {
		return fmt.Errorf("mem store: deletes disabled")
	}
	if _, ok := s.blobs[deleteID]; !ok {
		return fmt.Errorf("mem store: unknown delete ID %s", deleteID)
	}
	delete(s.blobs, deleteID)
	s.deletes++
	return nil
}

// UploadCount reports how many uploads succeeded.
func (s *MemStore) UploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

// DeleteCount reports how many deletes succeeded.
func (s *MemStore) DeleteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}

// Stored reports whether the given delete ID still has a blob.
func (s *MemStore) Stored(deleteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[deleteID]
	return ok
}
