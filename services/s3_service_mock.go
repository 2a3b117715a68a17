package services

import (
	"context"
	"fmt"
	"sync"
)

// MockS3Service is an in-memory bucket for tests
type MockS3Service struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string

	// PutErr, when set, is returned by every PutObject call
	PutErr error
}

// NewMockS3Service creates an empty mock bucket
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// PutObject stores body under key
func (m *MockS3Service) PutObject(_ context.Context, key, contentType string, body []byte) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	m.objects[key] = append([]byte(nil), body...)
	m.types[key] = contentType
	m.mu.Unlock()
	return nil
}

// PresignGet returns a fake URL for stored keys
func (m *MockS3Service) PresignGet(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("object not found in mock S3: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.ap-south-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteObject removes key
func (m *MockS3Service) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	delete(m.types, key)
	m.mu.Unlock()
	return nil
}

// ContentType returns the content type key was stored with
func (m *MockS3Service) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.types[key]
}

// ObjectExists reports whether key is stored
func (m *MockS3Service) ObjectExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects
func (m *MockS3Service) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
