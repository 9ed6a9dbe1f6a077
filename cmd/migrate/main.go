package main

import (
	"flag"
	"os"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/config"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	source := flag.String("source", "", "migration source URL (defaults to store.postgres.migrations)")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	pg := cfg.Store.Postgres
	if *source == "" {
		*source = pg.Migrations
	}

	log.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("source", *source).
		Msg("Applying migrations")

	if err := postgres.RunMigrations(pg.DSN(), *source); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
