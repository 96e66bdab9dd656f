package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/pageza/whatnext/backend/config"
	"github.com/pageza/whatnext/backend/internal/database"
	"github.com/pageza/whatnext/backend/internal/logger"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Drop the meal tables instead of migrating them")
	flag.Parse()

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

	if *rollback {
		if err := database.DropTables(db); err != nil {
			log.Fatal().Err(err).Msg("Rollback failed")
		}
		log.Info().Msg("Successfully dropped meal tables")
		return
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Msg("All migrations applied successfully")
}
