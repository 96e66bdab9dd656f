package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/whatnext/backend/internal/models"
	"github.com/pageza/whatnext/backend/internal/types"
)

// IMealStore hands out repositories bound to a single verified identity
type IMealStore interface {
	ForUser(identity *types.Identity) IMealRepository
}

// IMealRepository defines the meal operations available to one user
type IMealRepository interface {
	Latest(ctx context.Context, limit int) ([]models.Meal, error)
	Create(ctx context.Context, name string, event types.MealEvent, occurredAt time.Time) (*models.Meal, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// IGenerationClient defines the interface for the text generation service
type IGenerationClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// IHistoryAggregator defines the interface for reading a user's meal history
type IHistoryAggregator interface {
	Meals(ctx context.Context, identity *types.Identity) ([]types.MealView, error)
	ForRecommendation(ctx context.Context, identity *types.Identity) ([]types.FoodEntry, error)
	View(meal *models.Meal) types.MealView
}

// IRecommendationService defines the interface for producing a recommendation
type IRecommendationService interface {
	Recommend(ctx context.Context, identity *types.Identity) (*types.Recommendation, error)
}
