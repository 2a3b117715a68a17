package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/services"
)

// IdempotencyHeader carries the client-chosen key for a checkout attempt
const IdempotencyHeader = "Idempotency-Key"

// Idempotent refuses a second request with the same Idempotency-Key from the same user.
// Keys of failed requests (status >= 400) are released so the operator can retry.
// Requests without the header pass through untouched.
func Idempotent(store services.IdempotencyStore, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(IdempotencyHeader)
		if header == "" {
			c.Next()
			return
		}

		userID, _ := GetUserID(c)
		key := userID + ":" + header

		claimed, err := store.Claim(c.Request.Context(), key)
		if err != nil {
			log.Error("idempotency store unavailable", "err", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "IDEMPOTENCY_UNAVAILABLE",
					"message": "Could not verify request uniqueness, please retry",
				},
			})
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_REQUEST",
					"message": "This request has already been submitted",
				},
			})
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			// the client may be gone; the key must still be freed for a retry
			if err := store.Release(context.WithoutCancel(c.Request.Context()), key); err != nil {
				log.Warn("failed to release idempotency key", "err", err)
			}
		}
	}
}
