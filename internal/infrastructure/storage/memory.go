package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	exportapp "github.com/elevatecrm/backend/internal/application/export"
)

var _ exportapp.ObjectStore = (*MemoryStore)(nil)

type memoryObject struct {
	contentType string
	body        []byte
}

// MemoryStore keeps export files in memory. Used in development when
// no S3 backend is configured, and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	BaseURL string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memoryObject),
		BaseURL: "https://storage.invalid",
	}
}

// Put stores the object
func (m *MemoryStore) Put(_ context.Context, key, contentType string, body []byte) error {
	if key == "" {
		return errors.New("object key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{contentType: contentType, body: append([]byte(nil), body...)}
	return nil
}

// PresignDownload returns a synthetic URL for the stored object
func (m *MemoryStore) PresignDownload(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[key]; !ok {
		return "", time.Time{}, fmt.Errorf("object %s not found", key)
	}
	expiresAt := time.Now().Add(expiresIn)
	return fmt.Sprintf("%s/%s?expires=%d", m.BaseURL, key, expiresAt.Unix()), expiresAt, nil
}

// Delete removes the object. Missing keys are not an error.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Object returns the stored body and content type, for assertions
func (m *MemoryStore) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return obj.body, obj.contentType, true
}
