package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth0Service_GetUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" || r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("invalid token"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Auth0UserInfo{Sub: "auth0|staff1", Email: "priya@bakery.test", Name: "Priya"})
	}))
	defer server.Close()

	svc := NewAuth0Service(server.URL + "/")

	info, err := svc.GetUserInfo(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "auth0|staff1", info.Sub)
	assert.Equal(t, "Priya", info.Name)

	_, err = svc.GetUserInfo(context.Background(), "bad-token")
	assert.ErrorContains(t, err, "status 401")
}

func TestNewAuth0Service_AddsScheme(t *testing.T) {
	assert.Equal(t, "https://bakery.auth0.com", NewAuth0Service("bakery.auth0.com").baseURL)
	assert.Equal(t, "http://localhost:9999", NewAuth0Service("http://localhost:9999").baseURL)
}
