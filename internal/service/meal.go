package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/whatnext/backend/internal/models"
	"github.com/pageza/whatnext/backend/internal/types"
)

// MealStore owns the meal tables. Every query it issues is filtered by user_id.
type MealStore struct {
	db *gorm.DB
}

// NewMealStore creates a new MealStore instance
func NewMealStore(db *gorm.DB) *MealStore {
	return &MealStore{db: db}
}

// ForUser returns a repository that can only see rows owned by identity
func (s *MealStore) ForUser(identity *types.Identity) IMealRepository {
	return &MealRepository{db: s.db, userID: identity.UserID}
}

// MealRepository is a view of the meal tables scoped to one user
type MealRepository struct {
	db     *gorm.DB
	userID uuid.UUID
}

// Latest returns up to limit meals, newest first, with their foods loaded
func (r *MealRepository) Latest(ctx context.Context, limit int) ([]models.Meal, error) {
	var meals []models.Meal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", r.userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id = ?", r.userID).Order("created_at ASC")
		}).
		Preload("Items.Food", "user_id = ?", r.userID).
		Order("occurred_at DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&meals).Error
	if err != nil {
		return nil, &DataError{Op: "list meals", Err: err}
	}
	return meals, nil
}

// Create logs a meal of one food. The food is reused when the user has logged it before.
func (r *MealRepository) Create(ctx context.Context, name string, event types.MealEvent, occurredAt time.Time) (*models.Meal, error) {
	normalized := models.NormalizeFoodName(name)
	var meal models.Meal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var food models.Food
		err := tx.Where("user_id = ? AND normalized_name = ?", r.userID, normalized).First(&food).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			food = models.Food{
				UserID:         r.userID,
				Name:           models.CleanFoodName(name),
				NormalizedName: normalized,
			}
			err = tx.Create(&food).Error
		}
		if err != nil {
			return err
		}

		meal = models.Meal{
			UserID:     r.userID,
			MealType:   string(event),
			OccurredAt: occurredAt.UTC(),
		}
		if err := tx.Create(&meal).Error; err != nil {
			return err
		}

		item := models.MealItem{
			UserID: r.userID,
			MealID: meal.ID,
			FoodID: food.ID,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		item.Food = &food
		meal.Items = []models.MealItem{item}
		return nil
	})
	if err != nil {
		return nil, &DataError{Op: "create meal", Err: err}
	}
	return &meal, nil
}

// Delete removes a meal and its items. A meal owned by someone else is left alone
// and reported as zero rows affected.
func (r *MealRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ? AND user_id = ?", id, r.userID).Delete(&models.MealItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, r.userID).Delete(&models.Meal{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, &DataError{Op: "delete meal", Err: err}
	}
	return affected, nil
}
