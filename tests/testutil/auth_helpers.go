package testutil

import (
	"net/http"
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/middleware"
)

// MockValidatedClaims creates a mock ValidatedClaims carrying role
func MockValidatedClaims(subject, role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Role: role,
		},
	}
}

// SetMockAuthContext sets up the context exactly as the real EnsureValidToken middleware does
func SetMockAuthContext(c *gin.Context, userID, role, accessToken string) {
	c.Set("user_id", userID)
	c.Set("access_token", accessToken)
	c.Set("validated_claims", MockValidatedClaims(userID, role))
}

// MockAuthMiddleware authenticates every request as userID with role
func MockAuthMiddleware(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, role, "token-"+userID)
		c.Next()
	}
}

// HeaderAuthMiddleware reads "Authorization: Bearer <role>|<user id>" so one router can serve
// several test users. Requests without the header are rejected like an invalid JWT.
func HeaderAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		role, userID, ok := strings.Cut(token, "|")
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate JWT",
				},
			})
			return
		}
		SetMockAuthContext(c, userID, role, token)
		c.Next()
	}
}

// BearerToken builds the Authorization header value understood by HeaderAuthMiddleware
func BearerToken(role, userID string) string {
	return "Bearer " + role + "|" + userID
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
