package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Food is a distinct food a user has logged, deduplicated by normalized name
type Food struct {
	ID             uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID         uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_foods_user_normalized" json:"user_id"`
	Name           string    `gorm:"not null" json:"name"`
	NormalizedName string    `gorm:"not null;uniqueIndex:idx_foods_user_normalized" json:"normalized_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Meal is one eating occasion
type Meal struct {
	ID         uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:varchar(36);not null;index:idx_meals_user_occurred" json:"user_id"`
	MealType   string     `gorm:"size:20;not null" json:"meal_type"`
	OccurredAt time.Time  `gorm:"not null;index:idx_meals_user_occurred" json:"occurred_at"`
	Items      []MealItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MealItem links a meal to the foods eaten during it
type MealItem struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	MealID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"meal_id"`
	FoodID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"food_id"`
	Food      *Food     `gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE" json:"food,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (i *MealItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// NormalizeFoodName is the key foods are deduplicated on
func NormalizeFoodName(name string) string {
	return strings.ToLower(CleanFoodName(name))
}

// CleanFoodName collapses every run of whitespace, newlines included, to a single space
func CleanFoodName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// FoodNames returns the names of the linked foods that resolved, in item order
func (m *Meal) FoodNames() []string {
	names := make([]string, 0, len(m.Items))
	for _, item := range m.Items {
		if item.Food != nil && item.Food.Name != "" {
			names = append(names, item.Food.Name)
		}
	}
	return names
}
