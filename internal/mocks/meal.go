package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/whatnext/backend/internal/models"
	"github.com/pageza/whatnext/backend/internal/service"
	"github.com/pageza/whatnext/backend/internal/types"
)

// MockMealStore is a mock implementation of service.IMealStore
type MockMealStore struct {
	mock.Mock
}

func (m *MockMealStore) ForUser(identity *types.Identity) service.IMealRepository {
	args := m.Called(identity)
	return args.Get(0).(service.IMealRepository)
}

// MockMealRepository is a mock implementation of service.IMealRepository
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) Latest(ctx context.Context, limit int) ([]models.Meal, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealRepository) Create(ctx context.Context, name string, event types.MealEvent, occurredAt time.Time) (*models.Meal, error) {
	args := m.Called(ctx, name, event, occurredAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockMealRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockHistoryAggregator is a mock implementation of service.IHistoryAggregator
type MockHistoryAggregator struct {
	mock.Mock
}

func (m *MockHistoryAggregator) Meals(ctx context.Context, identity *types.Identity) ([]types.MealView, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.MealView), args.Error(1)
}

func (m *MockHistoryAggregator) ForRecommendation(ctx context.Context, identity *types.Identity) ([]types.FoodEntry, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FoodEntry), args.Error(1)
}

func (m *MockHistoryAggregator) View(meal *models.Meal) types.MealView {
	args := m.Called(meal)
	return args.Get(0).(types.MealView)
}
