package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/pool-booking-backend/internal/db"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/logger"
)

type migrateConfig struct {
	DBDSN    string `envconfig:"DB_DSN" required:"true"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

const usage = `usage: migrate <action>

actions:
  up       apply all pending migrations
  down     roll back the most recent migration
  step-up  apply the next pending migration
  drop     roll back every migration`

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	action := os.Args[1]

	_ = godotenv.Load()
	var cfg migrateConfig
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to process env: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, true)

	switch action {
	case db.ActionUp, db.ActionDown, db.ActionStepUp, db.ActionDrop:
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err := db.Migrate(cfg.DBDSN, action); err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("migration failed")
	}
}
