package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMockAuth0Server creates a mock HTTP server that simulates Auth0's /userinfo endpoint
func setupMockAuth0Server(t *testing.T, userInfoMap map[string]*services.Auth0UserInfo) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		userInfo, exists := userInfoMap[authHeader[7:]]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userInfo)
	}))
	t.Cleanup(server.Close)

	services.SetUserInfoFetcher(services.NewAuth0Service(server.URL))
	t.Cleanup(func() { services.SetUserInfoFetcher(nil) })
}

func profileRouter(auth0ID, role, accessToken string) *gin.Engine {
	router := setupTestRouter()
	me := router.Group("/profiles/me", mockAuthMiddleware(auth0ID, role, accessToken))
	me.POST("", CreateMyProfile)
	me.GET("", GetMyProfile)
	me.PUT("", UpdateMyProfile)
	return router
}

func TestCreateMyProfile(t *testing.T) {
	tests := []struct {
		name           string
		auth0ID        string
		userName       string
		role           string
		accessToken    string
		expectedStatus int
		expectedCode   string
		expectedRole   string
	}{
		{
			name:           "Create staff profile successfully",
			auth0ID:        "auth0|123456",
			userName:       "Asha Rao",
			role:           "staff",
			accessToken:    "token-123456",
			expectedStatus: http.StatusCreated,
			expectedRole:   "staff",
		},
		{
			name:           "Create admin profile successfully",
			auth0ID:        "auth0|owner",
			userName:       "Owner",
			role:           "admin",
			accessToken:    "token-owner",
			expectedStatus: http.StatusCreated,
			expectedRole:   "admin",
		},
		{
			name:           "Default to staff when the token has no role",
			auth0ID:        "auth0|norole",
			userName:       "No Role User",
			role:           "",
			accessToken:    "token-norole",
			expectedStatus: http.StatusCreated,
			expectedRole:   "staff",
		},
		{
			name:           "Fail with missing name",
			auth0ID:        "auth0|noname",
			userName:       "  ",
			role:           "staff",
			accessToken:    "token-noname",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_NAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestDB(t)
			setupMockAuth0Server(t, map[string]*services.Auth0UserInfo{
				tt.accessToken: {Sub: tt.auth0ID, Email: "someone@bakery.test", Name: tt.userName, PhoneNumber: "+919000000001"},
			})

			router := profileRouter(tt.auth0ID, tt.role, tt.accessToken)
			w := performJSON(router, http.MethodPost, "/profiles/me", nil)
			require.Equal(t, tt.expectedStatus, w.Code, "Response body: %s", w.Body.String())

			if tt.expectedStatus != http.StatusCreated {
				assert.Equal(t, tt.expectedCode, errorCode(t, w))
				return
			}

			data := responseData(t, w)
			assert.Equal(t, tt.userName, data["name"])
			assert.Equal(t, tt.auth0ID, data["auth0_id"])
			assert.Equal(t, "someone@bakery.test", data["email"])
			assert.Equal(t, "+919000000001", data["phone"])
			assert.Equal(t, tt.expectedRole, data["role"])
			assert.Equal(t, float64(0), data["loyalty_points"])
		})
	}
}

func TestCreateMyProfile_DuplicateAuth0ID(t *testing.T) {
	db := setupTestDB(t)
	auth0ID := "auth0|duplicate"
	require.NoError(t, db.Create(&models.Profile{Auth0ID: &auth0ID, Name: "First", Role: models.RoleStaff, IsActive: true}).Error)
	setupMockAuth0Server(t, map[string]*services.Auth0UserInfo{
		"token-duplicate": {Sub: auth0ID, Name: "Second"},
	})

	router := profileRouter(auth0ID, models.RoleStaff, "token-duplicate")
	w := performJSON(router, http.MethodPost, "/profiles/me", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PROFILE_EXISTS", errorCode(t, w))
}

func TestCreateMyProfile_Auth0Failures(t *testing.T) {
	setupTestDB(t)

	// token unknown to the mock server
	setupMockAuth0Server(t, map[string]*services.Auth0UserInfo{})
	router := profileRouter("auth0|x", models.RoleStaff, "token-unknown")
	w := performJSON(router, http.MethodPost, "/profiles/me", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "AUTH0_ERROR", errorCode(t, w))

	services.SetUserInfoFetcher(nil)
	w = performJSON(router, http.MethodPost, "/profiles/me", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// no access token in the context
	bare := setupTestRouter()
	bare.POST("/profiles/me", func(c *gin.Context) {
		c.Set("user_id", "auth0|x")
		CreateMyProfile(c)
	})
	w = performJSON(bare, http.MethodPost, "/profiles/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, w))
}

func TestGetMyProfile(t *testing.T) {
	db := setupTestDB(t)
	auth0ID := "auth0|testuser"
	require.NoError(t, db.Create(&models.Profile{Auth0ID: &auth0ID, Name: "Test User", Email: "test@bakery.test", Role: models.RoleStaff, IsActive: true}).Error)

	w := performJSON(profileRouter(auth0ID, models.RoleStaff, "token"), http.MethodGet, "/profiles/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "test@bakery.test", data["email"])
	assert.Equal(t, "Test User", data["name"])

	w = performJSON(profileRouter("auth0|nonexistent", models.RoleStaff, "token"), http.MethodGet, "/profiles/me", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PROFILE_NOT_FOUND", errorCode(t, w))
}

func TestGetMyProfile_NoUserID(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()
	router.GET("/profiles/me", GetMyProfile)

	w := performJSON(router, http.MethodGet, "/profiles/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
}

func TestUpdateMyProfile(t *testing.T) {
	db := setupTestDB(t)
	auth0ID := "auth0|updater"
	profile := models.Profile{Auth0ID: &auth0ID, Name: "Old Name", Email: "old@bakery.test", Role: models.RoleStaff, IsActive: true}
	require.NoError(t, db.Create(&profile).Error)
	router := profileRouter(auth0ID, models.RoleStaff, "token")

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedName   string
		expectedEmail  string
	}{
		{"update name only", map[string]string{"name": "  New Name "}, http.StatusOK, "New Name", "old@bakery.test"},
		{"update email only", map[string]string{"email": "new@bakery.test"}, http.StatusOK, "New Name", "new@bakery.test"},
		{"empty body keeps everything", map[string]string{}, http.StatusOK, "New Name", "new@bakery.test"},
		{"role cannot be changed", map[string]string{"role": "admin"}, http.StatusOK, "New Name", "new@bakery.test"},
		{"invalid email", map[string]string{"email": "not-an-email"}, http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPut, "/profiles/me", tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
				return
			}
			data := responseData(t, w)
			assert.Equal(t, tt.expectedName, data["name"])
			assert.Equal(t, tt.expectedEmail, data["email"])
			assert.Equal(t, "staff", data["role"])
		})
	}
}
