package storage

import (
	"context"
	"fmt"
	"sync"

	"filevault/internal/domain/services"
)

// MemoryStore keeps payloads in process. Used by tests and by servers
// started with STORAGE_BACKEND=memory.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// UploadErr / RemoveErr, when set, make the next calls fail
	UploadErr error
	RemoveErr map[string]error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects:   make(map[string][]byte),
		RemoveErr: make(map[string]error),
	}
}

// Upload stores a copy of the payload
func (m *MemoryStore) Upload(ctx context.Context, data []byte, hint services.UploadHint) (*services.StoredObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UploadErr != nil {
		return nil, m.UploadErr
	}

	key := ObjectKey(hint)
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = buf

	return &services.StoredObject{
		URL:         "memory://" + key,
		ExternalRef: key,
	}, nil
}

// Remove drops the object
func (m *MemoryStore) Remove(ctx context.Context, externalRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.RemoveErr[externalRef]; ok {
		return err
	}
	if _, ok := m.objects[externalRef]; !ok {
		return fmt.Errorf("memory storage: object %q not found", externalRef)
	}
	delete(m.objects, externalRef)
	return nil
}

// FailRemove makes removal of ref fail with err
func (m *MemoryStore) FailRemove(ref string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveErr[ref] = err
}

// Has reports whether an object is stored under ref
func (m *MemoryStore) Has(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[ref]
	return ok
}

// Len returns the number of stored objects
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
