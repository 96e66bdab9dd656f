package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/whatnext/backend/internal/api"
	"github.com/pageza/whatnext/backend/internal/middleware"
	"github.com/pageza/whatnext/backend/internal/mocks"
	"github.com/pageza/whatnext/backend/internal/service"
	"github.com/pageza/whatnext/backend/internal/testhelpers"
	"github.com/pageza/whatnext/backend/internal/types"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *mocks.MockGenerationClient) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.NewSQLiteDB(t)

	verifier := new(mocks.MockIdentityVerifier)
	verifier.On("Verify", mock.Anything, "good").Return(&types.Identity{UserID: uuid.New(), Token: "good"}, nil).Maybe()
	generator := new(mocks.MockGenerationClient)

	store := service.NewMealStore(db)
	history := service.NewHistoryAggregator(store, time.UTC)

	return SetupRouter(Options{
		Authenticator:   service.NewAuthGate(verifier),
		Health:          api.NewHealthHandler(db),
		Meals:           api.NewMealHandler(store, history),
		Recommendations: api.NewRecommendationHandler(service.NewRecommendationService(history, generator), nil),
	}), generator
}

func TestSetupRouter(t *testing.T) {
	router, generator := setupTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"test is public", http.MethodGet, "/test", "", http.StatusOK},
		{"meals need auth", http.MethodGet, "/meals/latest", "", http.StatusUnauthorized},
		{"recommend needs auth", http.MethodPost, "/recommend", "", http.StatusUnauthorized},
		{"meals with token", http.MethodGet, "/meals/latest", "Bearer good", http.StatusOK},
		{"recommend with empty history", http.MethodPost, "/recommend", "Bearer good", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}

	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
