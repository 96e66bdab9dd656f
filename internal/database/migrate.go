package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/whatnext/backend/internal/models"
)

// RunMigrations creates or updates the meal tables
func RunMigrations(db *gorm.DB) error {
	log.Info().Str("dialect", db.Dialector.Name()).Msg("Running auto-migration")
	if err := db.AutoMigrate(
		&models.Food{},
		&models.Meal{},
		&models.MealItem{},
	); err != nil {
		return fmt.Errorf("failed to migrate meal tables: %w", err)
	}
	return nil
}

// DropTables removes the meal tables, children first
func DropTables(db *gorm.DB) error {
	log.Warn().Str("dialect", db.Dialector.Name()).Msg("Dropping meal tables")
	if err := db.Migrator().DropTable(&models.MealItem{}, &models.Meal{}, &models.Food{}); err != nil {
		return fmt.Errorf("failed to drop meal tables: %w", err)
	}
	return nil
}
