package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/services"
	"github.com/kendall-kelly/bakery-admin-api/utils"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidation(c *gin.Context, message, details string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": message,
			"details": details,
		},
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondServiceError maps a service error onto the error envelope.
// resource names what was looked up, e.g. "ORDER" gives ORDER_NOT_FOUND.
func respondServiceError(c *gin.Context, err error, resource, action string) {
	var verr *services.ValidationError
	var uerr *utils.FileUploadError
	switch {
	case errors.As(err, &verr):
		respondValidation(c, verr.Message, verr.Field)
	case errors.As(err, &uerr):
		respondError(c, http.StatusBadRequest, uerr.Code, uerr.Message)
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, resource+"_NOT_FOUND", humanize(resource)+" not found")
	case errors.Is(err, services.ErrInsufficientPoints):
		respondError(c, http.StatusUnprocessableEntity, "INSUFFICIENT_POINTS", "Not enough loyalty points")
	case isDuplicate(err):
		respondError(c, http.StatusConflict, resource+"_EXISTS", "A "+strings.ToLower(humanize(resource))+" with these details already exists")
	default:
		slog.Error("request failed", "action", action, "path", c.FullPath(), "err", err)
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to "+action)
	}
}

// isDuplicate detects unique constraint violations (works with both PostgreSQL and SQLite)
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

func humanize(resource string) string {
	words := strings.Split(strings.ToLower(resource), "_")
	if len(words) > 0 && words[0] != "" {
		words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	}
	return strings.Join(words, " ")
}

// bindJSON binds the request body and answers 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondValidation(c, "Invalid request data", err.Error())
		return false
	}
	return true
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		respondValidation(c, "Invalid "+param, "must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// queryBool reads an optional boolean query parameter
func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		respondValidation(c, "Invalid "+name, "must be true or false")
		return nil, false
	}
	return &v, true
}
