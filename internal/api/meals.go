package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/whatnext/backend/internal/service"
	"github.com/pageza/whatnext/backend/internal/types"
)

// MealHandler serves the meal log of the authenticated user
type MealHandler struct {
	store   service.IMealStore
	history service.IHistoryAggregator
}

// NewMealHandler creates a new MealHandler instance
func NewMealHandler(store service.IMealStore, history service.IHistoryAggregator) *MealHandler {
	return &MealHandler{
		store:   store,
		history: history,
	}
}

// RegisterRoutes registers the meal routes on a group that already requires auth
func (h *MealHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/meals/latest", h.ListLatest)
	router.POST("/meals", h.Create)
	router.DELETE("/meals/:id", h.Delete)
}

// ListLatest returns the caller's most recent meals, newest first
func (h *MealHandler) ListLatest(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	meals, err := h.history.Meals(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.MealsResponse{
		UserID: identity.UserID,
		Meals:  meals,
	})
}

// Create logs a meal for the caller
func (h *MealHandler) Create(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req types.CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &service.ValidationError{Message: "Invalid request body: " + err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.MealEvent) == "" {
		respondError(c, &service.ValidationError{Fields: []string{"name", "meal_event"}})
		return
	}

	event, err := types.ParseMealEvent(req.MealEvent)
	if err != nil {
		respondError(c, &service.ValidationError{
			Fields:  []string{"meal_event"},
			Message: "meal_event must be one of: breakfast, lunch, dinner, snack",
		})
		return
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	meal, err := h.store.ForUser(identity).Create(c.Request.Context(), name, event, occurredAt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.MealResponse{Meal: h.history.View(meal)})
}

// Delete removes one of the caller's meals. Ids the caller does not own are a no-op.
func (h *MealHandler) Delete(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, &service.ValidationError{Fields: []string{"id"}, Message: "Invalid meal id"})
		return
	}

	if _, err := h.store.ForUser(identity).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
