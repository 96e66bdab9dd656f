package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/whatnext/backend/internal/api"
	"github.com/pageza/whatnext/backend/internal/middleware"
)

// Options holds everything SetupRouter wires together
type Options struct {
	CORSOrigins     []string
	Authenticator   middleware.Authenticator
	Health          *api.HealthHandler
	Meals           *api.MealHandler
	Recommendations *api.RecommendationHandler
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.NoRoute(middleware.NotFound)

	// Public routes
	if opts.Health != nil {
		opts.Health.RegisterRoutes(router)
	}

	// Protected routes
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(opts.Authenticator))
	{
		if opts.Meals != nil {
			opts.Meals.RegisterRoutes(protected)
		}
		if opts.Recommendations != nil {
			opts.Recommendations.RegisterRoutes(protected)
		}
	}

	return router
}
