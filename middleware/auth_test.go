package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsWithRole(role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://bakery.auth0.com/",
			Subject: "auth0|staff1",
		},
		CustomClaims: &CustomClaims{Role: role},
	}
}

func TestCustomClaims_Validate(t *testing.T) {
	for _, role := range []string{"", "admin", "staff", "customer"} {
		assert.NoError(t, CustomClaims{Role: role}.Validate(context.Background()), role)
	}
	assert.Error(t, CustomClaims{Role: "baker-in-chief"}.Validate(context.Background()))
}

func authCode(t *testing.T, err error) string {
	t.Helper()
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "expected *AuthError, got %v", err)
	return authErr.Code
}

func TestContextAccessors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("empty context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		_, err := GetUserID(c)
		assert.Equal(t, "MISSING_USER_ID", authCode(t, err))
		_, err = GetAccessToken(c)
		assert.Equal(t, "MISSING_TOKEN", authCode(t, err))
		_, err = GetClaims(c)
		assert.Equal(t, "MISSING_CLAIMS", authCode(t, err))
		assert.Empty(t, GetRole(c))
	})

	t.Run("wrong types", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(userIDKey, 12345)
		c.Set(accessTokenKey, "")
		c.Set(claimsKey, "not-claims")

		_, err := GetUserID(c)
		assert.Equal(t, "INVALID_USER_ID", authCode(t, err))
		_, err = GetAccessToken(c)
		assert.Equal(t, "MISSING_TOKEN", authCode(t, err))
		_, err = GetClaims(c)
		assert.Equal(t, "INVALID_CLAIMS", authCode(t, err))
		assert.Empty(t, GetRole(c))
	})

	t.Run("populated by the validator", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(userIDKey, "auth0|staff1")
		c.Set(accessTokenKey, "tok-123")
		c.Set(claimsKey, claimsWithRole("staff"))

		userID, err := GetUserID(c)
		require.NoError(t, err)
		assert.Equal(t, "auth0|staff1", userID)

		token, err := GetAccessToken(c)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)

		assert.Equal(t, "staff", GetRole(c))
	})

	t.Run("claims without a role", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(claimsKey, &validator.ValidatedClaims{})
		assert.Empty(t, GetRole(c))
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// role "-" leaves the claims out of the context
	serve := func(role string, allowed ...string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if role != "-" {
				c.Set(claimsKey, claimsWithRole(role))
			}
		})
		r.GET("/orders", RequireRole(allowed...), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
		return w
	}

	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantCode int
		wantErr  string
	}{
		{"staff on counter routes", "staff", []string{"admin", "staff"}, http.StatusNoContent, ""},
		{"admin on admin routes", "admin", []string{"admin"}, http.StatusNoContent, ""},
		{"staff on admin routes", "staff", []string{"admin"}, http.StatusForbidden, "INSUFFICIENT_ROLE"},
		{"customer", "customer", []string{"admin", "staff"}, http.StatusForbidden, "INSUFFICIENT_ROLE"},
		{"no role claim", "", []string{"admin", "staff"}, http.StatusForbidden, "INSUFFICIENT_ROLE"},
		{"no claims", "-", []string{"admin"}, http.StatusUnauthorized, "MISSING_CLAIMS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.role, tt.allowed...)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr == "" {
				return
			}
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantErr, body.Error.Code)
		})
	}
}

func TestEnsureValidToken_RejectsUnsignedRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	validate, err := EnsureValidToken(&config.Config{
		Auth0Domain:   "bakery.auth0.com",
		Auth0Audience: "https://api.bakery.test",
	})
	require.NoError(t, err)

	reached := false
	r := gin.New()
	r.GET("/profiles/me", validate, func(c *gin.Context) { reached = true })

	for _, header := range []string{"", "Bearer not.a.jwt", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/profiles/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.JSONEq(t, `{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`, w.Body.String())
	}
	assert.False(t, reached)
}

func TestAuthError(t *testing.T) {
	err := error(&AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"})
	assert.EqualError(t, err, "Claims not found in context")
}
