package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/whatnext/backend/internal/database"
)

// HealthHandler serves the unauthenticated informational endpoints
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// RegisterRoutes registers the public routes
func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/", h.Root)
	router.GET("/test", h.Test)
	router.GET("/health", h.Health)
}

// Root describes the API
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":   "whatNext API",
		"status": "running",
		"endpoints": gin.H{
			"GET /test":         "Health check",
			"GET /health":       "Health check with database ping",
			"GET /meals/latest": "Get recent meals (requires auth)",
			"POST /meals":       "Add a meal (requires auth)",
			"DELETE /meals/:id": "Delete a meal (requires auth)",
			"POST /recommend":   "Get AI recommendation (requires auth)",
		},
	})
}

// Test reports that the process is serving requests
func (h *HealthHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Server is running"})
}

// Health returns the health status of the API and its database
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "not configured"})
		return
	}
	if err := database.HealthCheck(ctx, h.db); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("database health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
