package types

import (
	"time"

	"github.com/google/uuid"
)

// CreateMealRequest is the body of POST /meals
type CreateMealRequest struct {
	Name       string     `json:"name"`
	MealEvent  string     `json:"meal_event"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// MealView is a meal as the client sees it
type MealView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Hour       int       `json:"hour"`
	Minute     int       `json:"minute"`
	MealEvent  MealEvent `json:"meal_event"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MealsResponse is the body of GET /meals/latest
type MealsResponse struct {
	UserID uuid.UUID  `json:"user_id"`
	Meals  []MealView `json:"meals"`
}

// MealResponse is the body of POST /meals
type MealResponse struct {
	Meal MealView `json:"meal"`
}

// RecommendationResponse is the body of POST /recommend
type RecommendationResponse struct {
	Recommendation Recommendation `json:"recommendation"`
}
