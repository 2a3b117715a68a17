package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize is the largest accepted image upload (5MB)
const MaxFileSize = 5 * 1024 * 1024

// imageContentTypes maps accepted extensions to the content type stored with the object
var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile checks the size and extension of an uploaded catalog image
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	if _, ok := ImageContentType(fileHeader.Filename); !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only .png, .jpg, .jpeg and .webp files are allowed",
		}
	}

	return nil
}

// ImageContentType returns the content type for filename's extension
func ImageContentType(filename string) (string, bool) {
	ct, ok := imageContentTypes[strings.ToLower(filepath.Ext(filename))]
	return ct, ok
}

// NewImageKey builds a collision-free storage key such as "products/0f8c...e1.webp"
func NewImageKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// SaveUploadedFile writes the upload to uploadDir under key and returns key.
// key may contain one folder level, which is created as needed.
func SaveUploadedFile(fileHeader *multipart.FileHeader, uploadDir, key string) (saved string, err error) {
	fullPath := filepath.Join(uploadDir, filepath.FromSlash(key))
	if !strings.HasPrefix(fullPath, filepath.Clean(uploadDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid upload key %q", key)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return key, nil
}

// RemoveUploadedFile deletes a file saved by SaveUploadedFile. Missing files are ignored.
func RemoveUploadedFile(uploadDir, key string) error {
	fullPath := filepath.Join(uploadDir, filepath.FromSlash(key))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// GetImageURL returns the URL path the API serves a locally stored image from
func GetImageURL(key string) string {
	if key == "" {
		return ""
	}
	return "/api/v1/uploads/" + key
}
