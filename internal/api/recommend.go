package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/whatnext/backend/internal/middleware"
	"github.com/pageza/whatnext/backend/internal/service"
	"github.com/pageza/whatnext/backend/internal/types"
)

// RecommendationHandler serves POST /recommend
type RecommendationHandler struct {
	svc     service.IRecommendationService
	limiter *middleware.RateLimiter
}

// NewRecommendationHandler creates a handler. limiter may be nil, in which case
// recommendations are not rate limited.
func NewRecommendationHandler(svc service.IRecommendationService, limiter *middleware.RateLimiter) *RecommendationHandler {
	return &RecommendationHandler{
		svc:     svc,
		limiter: limiter,
	}
}

// RegisterRoutes registers the recommendation routes on a group that already requires auth
func (h *RecommendationHandler) RegisterRoutes(router gin.IRoutes) {
	if h.limiter == nil {
		router.POST("/recommend", h.Recommend)
		return
	}
	router.POST("/recommend", h.limiter.RateLimitMiddleware(), h.Recommend)
	router.GET("/rate-limits/recommend", h.RateLimitStatus)
}

// Recommend generates one food recommendation from the caller's recent meals
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	rec, err := h.svc.Recommend(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.RecommendationResponse{Recommendation: *rec})
}

// RateLimitStatus reports how many recommendations the caller has left in the current window
func (h *RecommendationHandler) RateLimitStatus(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	remaining, resetTime, err := h.limiter.Remaining(c.Request.Context(), identity.UserID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to check rate limit"})
		return
	}

	cfg := h.limiter.Config()
	c.JSON(http.StatusOK, gin.H{
		"limit":      cfg.Limit,
		"remaining":  remaining,
		"reset_time": resetTime.Unix(),
		"window":     cfg.Window.String(),
	})
}
