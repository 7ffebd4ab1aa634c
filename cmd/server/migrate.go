package main

import (
	"fmt"

	"anoa.com/studentprofile/internal/config"
	"anoa.com/studentprofile/pkg/database"
	"anoa.com/studentprofile/pkg/logger"
)

type migrationRunner interface {
	Up() error
	Down() error
}

func applyMigrations(m migrationRunner, direction string) error {
	switch direction {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	}
	return fmt.Errorf("invalid migration direction %q, use up or down", direction)
}

// runMigrations backs `server migrate -direction=up|down`.
func runMigrations(direction string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.NewWithConfig(cfg.Log.Level, cfg.Log.Pretty)

	migrator, err := database.NewMigrator(cfg.Database.DSN(), log)
	if err != nil {
		return err
	}
	if err := applyMigrations(migrator, direction); err != nil {
		return err
	}
	log.Info().Str("direction", direction).Msg("migrations finished")
	return nil
}
