package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/whatnext/backend/internal/middleware"
	"github.com/pageza/whatnext/backend/internal/mocks"
	"github.com/pageza/whatnext/backend/internal/service"
	"github.com/pageza/whatnext/backend/internal/testhelpers"
	"github.com/pageza/whatnext/backend/internal/types"
)

const testToken = "test-token"

// testEnv holds a router wired to a real sqlite store with mocked identity and generation
type testEnv struct {
	Router    *gin.Engine
	DB        *gorm.DB
	Verifier  *mocks.MockIdentityVerifier
	Generator *mocks.MockGenerationClient
	Identity  *types.Identity
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewSQLiteDB(t)
	identity := &types.Identity{UserID: uuid.New(), Token: testToken}

	verifier := new(mocks.MockIdentityVerifier)
	verifier.On("Verify", mock.Anything, testToken).Return(identity, nil).Maybe()
	verifier.On("Verify", mock.Anything, mock.Anything).Return(nil, errors.New("token rejected")).Maybe()
	generator := new(mocks.MockGenerationClient)

	store := service.NewMealStore(db)
	history := service.NewHistoryAggregator(store, time.UTC)
	recommender := service.NewRecommendationService(history, generator)

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	NewHealthHandler(db).RegisterRoutes(router)

	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(service.NewAuthGate(verifier)))
	NewMealHandler(store, history).RegisterRoutes(protected)
	NewRecommendationHandler(recommender, nil).RegisterRoutes(protected)

	return &testEnv{
		Router:    router,
		DB:        db,
		Verifier:  verifier,
		Generator: generator,
		Identity:  identity,
	}
}

// PerformRequest makes a request without credentials
func PerformRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	return performRequest(router, method, path, body, "")
}

// PerformRequestWithToken makes a request carrying a bearer token
func PerformRequestWithToken(router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	return performRequest(router, method, path, body, "Bearer "+token)
}

func performRequest(router http.Handler, method, path string, body interface{}, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewBufferString(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
