package main

import (
	"context"
	"flag"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pageza/whatnext/backend/config"
	"github.com/pageza/whatnext/backend/internal/database"
	"github.com/pageza/whatnext/backend/internal/logger"
	"github.com/pageza/whatnext/backend/internal/service"
	"github.com/pageza/whatnext/backend/internal/types"
)

// sampleMeal is logged daysAgo days before today at the given local time
type sampleMeal struct {
	name    string
	event   types.MealEvent
	daysAgo int
	hour    int
	minute  int
}

var sampleMeals = []sampleMeal{
	{"Oatmeal with berries", types.Breakfast, 2, 7, 30},
	{"Chicken Caesar salad", types.Lunch, 2, 12, 15},
	{"Spaghetti bolognese", types.Dinner, 2, 19, 0},
	{"Greek yogurt", types.Snack, 1, 10, 0},
	{"Scrambled eggs", types.Breakfast, 1, 8, 0},
	{"Turkey sandwich", types.Lunch, 1, 12, 45},
	{"Salmon with rice", types.Dinner, 1, 18, 30},
	{"Avocado toast", types.Breakfast, 0, 7, 45},
	{"Apple", types.Snack, 0, 15, 20},
}

func main() {
	userFlag := flag.String("user", "", "User id (uuid) to seed meals for")
	flag.Parse()

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("A valid -user uuid is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg)

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	repo := service.NewMealStore(db).ForUser(&types.Identity{UserID: userID})
	ctx := context.Background()
	today := time.Now().In(cfg.Location)

	log.Info().Str("user_id", userID.String()).Int("meals", len(sampleMeals)).Msg("Seeding meals")
	for _, m := range sampleMeals {
		day := today.AddDate(0, 0, -m.daysAgo)
		at := time.Date(day.Year(), day.Month(), day.Day(), m.hour, m.minute, 0, 0, cfg.Location)

		if _, err := repo.Create(ctx, m.name, m.event, at); err != nil {
			log.Error().Err(err).Str("meal", m.name).Msg("Failed to create meal")
			continue
		}
		log.Info().Str("meal", m.name).Str("event", string(m.event)).Time("occurred_at", at).Msg("Created meal")
	}

	log.Info().Msg("Meals seeded successfully")
}
