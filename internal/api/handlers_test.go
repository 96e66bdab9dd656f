package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/whatnext/backend/internal/database"
)

func TestPublicRoutes(t *testing.T) {
	env := setupTestEnv(t)

	w := PerformRequest(env.Router, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Server is running"}`, w.Body.String())

	w = PerformRequest(env.Router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = PerformRequest(env.Router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info struct {
		Endpoints map[string]string `json:"endpoints"`
	}
	decodeBody(t, w, &info)
	assert.Contains(t, info.Endpoints, "POST /recommend")
}

func TestHealthUnhealthy(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, database.Close(env.DB))

	w := PerformRequest(env.Router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestHealthWithoutDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHealthHandler(nil).RegisterRoutes(router)

	w := PerformRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
