package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/config"
	"github.com/kendall-kelly/bakery-admin-api/middleware"
	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/kendall-kelly/bakery-admin-api/services"
)

// UpdateMyProfileRequest represents the request body for updating the caller's own profile
type UpdateMyProfileRequest struct {
	Name  string `json:"name" binding:"omitempty"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty"`
}

func currentAuth0ID(c *gin.Context) (string, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return "", false
	}
	return auth0ID, true
}

func findMyProfile(c *gin.Context, auth0ID string) (models.Profile, bool) {
	var profile models.Profile
	if err := config.GetDB().WithContext(c.Request.Context()).Where("auth0_id = ?", auth0ID).First(&profile).Error; err != nil {
		respondError(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found. Please create a profile first.")
		return models.Profile{}, false
	}
	return profile, true
}

// CreateMyProfile handles POST /api/v1/profiles/me - creates the caller's staff profile from Auth0 userinfo
func CreateMyProfile(c *gin.Context) {
	auth0ID, ok := currentAuth0ID(c)
	if !ok {
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found")
		return
	}

	fetcher := services.GetUserInfoFetcher()
	if fetcher == nil {
		respondError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Auth0 is not configured")
		return
	}
	userInfo, err := fetcher.GetUserInfo(c.Request.Context(), accessToken)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusBadGateway, "AUTH0_ERROR", "Failed to fetch user information from Auth0")
		return
	}

	name := strings.TrimSpace(userInfo.Name)
	if name == "" {
		respondError(c, http.StatusBadRequest, "MISSING_NAME", "Name not provided by Auth0")
		return
	}

	// The role comes from the token, never from userinfo
	role := middleware.GetRole(c)
	if !models.ValidRole(role) {
		role = models.RoleStaff
	}

	profile := models.Profile{
		Auth0ID:  &auth0ID,
		Name:     name,
		Email:    userInfo.Email,
		Phone:    userInfo.PhoneNumber,
		Role:     role,
		IsActive: true,
	}
	if err := config.GetDB().WithContext(c.Request.Context()).Create(&profile).Error; err != nil {
		respondServiceError(c, err, "PROFILE", "create profile")
		return
	}

	respondData(c, http.StatusCreated, profile)
}

// GetMyProfile handles GET /api/v1/profiles/me
func GetMyProfile(c *gin.Context) {
	auth0ID, ok := currentAuth0ID(c)
	if !ok {
		return
	}
	profile, ok := findMyProfile(c, auth0ID)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, profile)
}

// UpdateMyProfile handles PUT /api/v1/profiles/me - only name, email and phone can change
func UpdateMyProfile(c *gin.Context) {
	auth0ID, ok := currentAuth0ID(c)
	if !ok {
		return
	}

	var req UpdateMyProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, ok := findMyProfile(c, auth0ID)
	if !ok {
		return
	}

	updates := make(map[string]interface{})
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	// If no fields to update, return current profile
	if len(updates) == 0 {
		respondData(c, http.StatusOK, profile)
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())
	if err := db.Model(&profile).Updates(updates).Error; err != nil {
		respondServiceError(c, err, "PROFILE", "update profile")
		return
	}
	if err := db.First(&profile, profile.ID).Error; err != nil {
		respondServiceError(c, err, "PROFILE", "load profile")
		return
	}

	respondData(c, http.StatusOK, profile)
}
