package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/kendall-kelly/bakery-admin-api/utils"
)

// ImageService stores catalog images and resolves their display URLs
type ImageService interface {
	// UploadImage validates the file and stores it under folder, returning the storage key
	UploadImage(ctx context.Context, folder string, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL returns a URL for a stored key; empty keys give an empty URL
	GetImageURL(ctx context.Context, key string) (string, error)

	// DeleteImage removes a stored image; empty keys are ignored
	DeleteImage(ctx context.Context, key string) error
}

var imageServiceInstance ImageService

// GetImageService returns the shared image service
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the shared image service
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// S3ImageService keeps images in a private bucket and hands out presigned URLs
type S3ImageService struct {
	s3 S3Interface
}

// NewS3ImageService creates an image service over a bucket client
func NewS3ImageService(s3 S3Interface) *S3ImageService {
	return &S3ImageService{s3: s3}
}

// UploadImage validates and uploads an image
func (s *S3ImageService) UploadImage(ctx context.Context, folder string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}
	contentType, _ := utils.ImageContentType(fileHeader.Filename)

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := utils.NewImageKey(folder, fileHeader.Filename)
	if err := s.s3.PutObject(ctx, key, contentType, content); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// GetImageURL presigns a GET for key
func (s *S3ImageService) GetImageURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	url, err := s.s3.PresignGet(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// DeleteImage deletes key from the bucket
func (s *S3ImageService) DeleteImage(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.s3.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// LocalImageService keeps images on disk and serves them from /api/v1/uploads
type LocalImageService struct {
	dir string
}

// NewLocalImageService stores images under dir
func NewLocalImageService(dir string) *LocalImageService {
	return &LocalImageService{dir: dir}
}

// Dir is the directory images are written to
func (s *LocalImageService) Dir() string {
	return s.dir
}

// UploadImage validates and saves an image to disk
func (s *LocalImageService) UploadImage(_ context.Context, folder string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}
	key, err := utils.SaveUploadedFile(fileHeader, s.dir, utils.NewImageKey(folder, fileHeader.Filename))
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// GetImageURL returns the API path for key
func (s *LocalImageService) GetImageURL(_ context.Context, key string) (string, error) {
	return utils.GetImageURL(key), nil
}

// DeleteImage removes key from disk
func (s *LocalImageService) DeleteImage(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	return utils.RemoveUploadedFile(s.dir, key)
}
