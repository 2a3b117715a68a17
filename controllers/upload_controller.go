package controllers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/services"
	"github.com/kendall-kelly/bakery-admin-api/utils"
)

// uploadFolders are the storage prefixes clients may upload into directly
var uploadFolders = map[string]bool{
	"uploads":    true,
	"categories": true,
	"products":   true,
	"combos":     true,
}

func resolveImageURL(c *gin.Context, key *string) *string {
	images := services.GetImageService()
	if key == nil || *key == "" || images == nil {
		return nil
	}
	url, err := images.GetImageURL(c.Request.Context(), *key)
	if err != nil {
		slog.Warn("failed to resolve image URL", "key", *key, "err", err)
		return nil
	}
	return &url
}

func deleteImage(c *gin.Context, key string) {
	images := services.GetImageService()
	if images == nil {
		return
	}
	if err := images.DeleteImage(c.Request.Context(), key); err != nil {
		slog.Warn("failed to delete image", "key", key, "err", err)
	}
}

func formImage(c *gin.Context) (string, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "Image file is required (form field \"image\")")
		return "", false
	}

	images := services.GetImageService()
	if images == nil {
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured")
		return "", false
	}

	folder := c.DefaultPostForm("folder", "uploads")
	if f := c.GetString("image_folder"); f != "" {
		folder = f
	}
	if !uploadFolders[folder] {
		respondValidation(c, "Invalid folder", "folder must be one of uploads, categories, products, combos")
		return "", false
	}

	key, err := images.UploadImage(c.Request.Context(), folder, fileHeader)
	if err != nil {
		respondServiceError(c, err, "IMAGE", "upload image")
		return "", false
	}
	return key, true
}

// UploadFile handles POST /api/v1/uploads - stores an image and returns its key and URL
func UploadFile(c *gin.Context) {
	key, ok := formImage(c)
	if !ok {
		return
	}

	data := gin.H{"key": key}
	if url := resolveImageURL(c, &key); url != nil {
		data["url"] = *url
	}
	respondData(c, http.StatusCreated, data)
}

// UploadImage returns the handler for POST /:id/image on tables that carry an image.
// The previous image is deleted once the new key is stored.
func (r resource[T]) UploadImage(folder string) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, ok := r.load(c)
		if !ok {
			return
		}

		c.Set("image_folder", folder)
		key, ok := formImage(c)
		if !ok {
			return
		}

		keyField, _ := r.image(item)
		previous := *keyField
		if err := config.GetDB().WithContext(c.Request.Context()).Model(item).Update("ImageS3Key", key).Error; err != nil {
			deleteImage(c, key)
			respondServiceError(c, err, r.code, "update "+r.label+" image")
			return
		}
		*keyField = &key

		if previous != nil && *previous != key {
			deleteImage(c, *previous)
		}

		r.show(c, item)
		respondData(c, http.StatusOK, item)
	}
}

// GetUploadedImage handles GET /api/v1/uploads/*key - serves images kept on local disk
func GetUploadedImage(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Security: Prevent directory traversal attacks
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || filepath.IsAbs(key) {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	contentType, ok := utils.ImageContentType(key)
	if !ok {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PNG, JPEG and WebP images are supported")
		return
	}

	local, ok := services.GetImageService().(*services.LocalImageService)
	if !ok {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	filePath := filepath.Join(local.Dir(), filepath.FromSlash(key))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}
