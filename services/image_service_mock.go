package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/kendall-kelly/bakery-admin-api/utils"
)

// MockImageService records uploads in memory for handler tests
type MockImageService struct {
	mu     sync.RWMutex
	images map[string]int64
	seq    int
}

// NewMockImageService creates an empty mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{images: make(map[string]int64)}
}

// SetAsMockForTesting installs this mock as the shared image service
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// UploadImage validates the file and records a predictable key
func (m *MockImageService) UploadImage(_ context.Context, folder string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	key := fmt.Sprintf("%s/mock_%d_%s", folder, m.seq, fileHeader.Filename)
	m.images[key] = fileHeader.Size
	return key, nil
}

// GetImageURL returns a fake URL for recorded keys
func (m *MockImageService) GetImageURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	if !m.ImageExists(key) {
		return "", fmt.Errorf("image not found in mock storage: %s", key)
	}
	return "https://images.test/" + key, nil
}

// DeleteImage forgets key
func (m *MockImageService) DeleteImage(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.images, key)
	m.mu.Unlock()
	return nil
}

// ImageExists reports whether key was uploaded and not deleted
func (m *MockImageService) ImageExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.images[key]
	return ok
}

// Count returns how many images are stored
func (m *MockImageService) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}
