package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/whatnext/backend/internal/middleware"
	"github.com/pageza/whatnext/backend/internal/service"
	"github.com/pageza/whatnext/backend/internal/types"
)

func logMeal(t *testing.T, env *testEnv, name, event string, at time.Time) {
	t.Helper()
	w := PerformRequestWithToken(env.Router, http.MethodPost, "/meals", types.CreateMealRequest{
		Name: name, MealEvent: event, OccurredAt: &at,
	}, testToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRecommendStructuredOutput(t *testing.T) {
	env := setupTestEnv(t)
	logMeal(t, env, "Oatmeal", "breakfast", time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	env.Generator.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "- name: Oatmeal, time: 08:00, mealEvent: breakfast")
	})).Return(`{"food":"Grilled Salmon","reason":"Light protein","ingredients":["salmon","lemon"],"steps":["Season","Grill"]}`, nil).Once()

	w := PerformRequestWithToken(env.Router, http.MethodPost, "/recommend", nil, testToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.RecommendationResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, types.Recommendation{
		Food:        "Grilled Salmon",
		Reason:      "Light protein",
		Ingredients: []string{"salmon", "lemon"},
		Steps:       []string{"Season", "Grill"},
	}, resp.Recommendation)
	env.Generator.AssertExpectations(t)
}

func TestRecommendPlainTextOutput(t *testing.T) {
	env := setupTestEnv(t)
	logMeal(t, env, "Pasta", "dinner", time.Date(2024, 3, 10, 19, 0, 0, 0, time.UTC))

	env.Generator.On("Generate", mock.Anything, mock.Anything).Return("Try a green salad", nil).Once()

	w := PerformRequestWithToken(env.Router, http.MethodPost, "/recommend", nil, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recommendation":{"food":"Try a green salad","reason":"","ingredients":[],"steps":[]}}`, w.Body.String())
}

func TestRecommendEmptyHistory(t *testing.T) {
	env := setupTestEnv(t)

	w := PerformRequestWithToken(env.Router, http.MethodPost, "/recommend", nil, testToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp middleware.ErrorResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "No meals found. Add some meals first!", resp.Error)
	env.Generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRecommendGenerationFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"upstream status", &service.GenerationError{Kind: service.GenerationStatus, StatusCode: http.StatusTooManyRequests, Body: "quota exceeded for key sk-123"}},
		{"transport", &service.GenerationError{Kind: service.GenerationTransport, Err: context.DeadlineExceeded}},
		{"malformed", &service.GenerationError{Kind: service.GenerationMalformed, Err: errors.New("no choices")}},
		{"missing config", &service.ConfigError{Missing: []string{"AZURE_OPENAI_API_KEY"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			logMeal(t, env, "Rice", "lunch", time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
			env.Generator.On("Generate", mock.Anything, mock.Anything).Return("", tt.err).Once()

			w := PerformRequestWithToken(env.Router, http.MethodPost, "/recommend", nil, testToken)
			assert.Equal(t, http.StatusInternalServerError, w.Code)

			var resp middleware.ErrorResponse
			decodeBody(t, w, &resp)
			assert.Equal(t, "Failed to generate recommendation", resp.Error)
			assert.NotContains(t, w.Body.String(), "sk-123")
			env.Generator.AssertNumberOfCalls(t, "Generate", 1)
		})
	}
}

func TestRecommendRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	w := PerformRequest(env.Router, http.MethodPost, "/recommend", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.Generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRateLimitStatusRouteOnlyWithLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewRecommendationHandler(nil, nil).RegisterRoutes(router)

	w := PerformRequest(router, http.MethodGet, "/rate-limits/recommend", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
