package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pageza/whatnext/backend/internal/models"
	"github.com/pageza/whatnext/backend/internal/types"
)

// HistoryLimit is how many recent meals are listed and fed to the generator
const HistoryLimit = 30

// unknownFood names a meal whose foods could not be resolved
const unknownFood = "Unknown"

// HistoryAggregator reads a user's recent meals and projects them into local time
type HistoryAggregator struct {
	store IMealStore
	loc   *time.Location
}

// NewHistoryAggregator creates an aggregator that reports times in loc
func NewHistoryAggregator(store IMealStore, loc *time.Location) *HistoryAggregator {
	if loc == nil {
		loc = time.Local
	}
	return &HistoryAggregator{store: store, loc: loc}
}

func (h *HistoryAggregator) latest(ctx context.Context, identity *types.Identity) ([]models.Meal, error) {
	meals, err := h.store.ForUser(identity).Latest(ctx, HistoryLimit)
	if err != nil {
		var dataErr *DataError
		if errors.As(err, &dataErr) {
			return nil, err
		}
		return nil, &DataError{Op: "list meals", Err: err}
	}
	return meals, nil
}

// Recent returns the newest meals as food entries in store order. An empty history is not an error.
func (h *HistoryAggregator) Recent(ctx context.Context, identity *types.Identity) ([]types.FoodEntry, error) {
	meals, err := h.latest(ctx, identity)
	if err != nil {
		return nil, err
	}
	entries := make([]types.FoodEntry, 0, len(meals))
	for i := range meals {
		entries = append(entries, h.Project(&meals[i]))
	}
	return entries, nil
}

// ForRecommendation is Recent, except that an empty history fails with ErrEmptyHistory
func (h *HistoryAggregator) ForRecommendation(ctx context.Context, identity *types.Identity) ([]types.FoodEntry, error) {
	entries, err := h.Recent(ctx, identity)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyHistory
	}
	return entries, nil
}

// Meals returns the newest meals shaped for the client
func (h *HistoryAggregator) Meals(ctx context.Context, identity *types.Identity) ([]types.MealView, error) {
	meals, err := h.latest(ctx, identity)
	if err != nil {
		return nil, err
	}
	views := make([]types.MealView, 0, len(meals))
	for i := range meals {
		views = append(views, h.View(&meals[i]))
	}
	return views, nil
}

// Project converts a stored meal into a FoodEntry
func (h *HistoryAggregator) Project(meal *models.Meal) types.FoodEntry {
	local := meal.OccurredAt.In(h.loc)
	return types.FoodEntry{
		Name:      mealName(meal),
		Hour:      local.Hour(),
		Minute:    local.Minute(),
		MealEvent: types.MealEvent(meal.MealType),
	}
}

// View converts a stored meal into the shape returned by the meal endpoints
func (h *HistoryAggregator) View(meal *models.Meal) types.MealView {
	local := meal.OccurredAt.In(h.loc)
	return types.MealView{
		ID:         meal.ID,
		Name:       mealName(meal),
		Hour:       local.Hour(),
		Minute:     local.Minute(),
		MealEvent:  types.MealEvent(meal.MealType),
		OccurredAt: meal.OccurredAt,
	}
}

func mealName(meal *models.Meal) string {
	names := meal.FoodNames()
	if len(names) == 0 {
		return unknownFood
	}
	return strings.Join(names, ", ")
}
