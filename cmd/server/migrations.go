package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-fsrs/internal/platform/postgres"
)

// handleMigrations runs the command given with -migrate and returns.
func handleMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	logger.Info("Executing migrations", "command", command)

	switch command {
	case "up":
		return applyMigrations(ctx, db, logger)
	case "down":
		if err := postgres.MigrateDown(ctx, db, logger); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return reportVersion(ctx, db, logger)
	case "status":
		return reportVersion(ctx, db, logger)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

// applyMigrations brings the schema up to date. The server runs it on every
// start.
func applyMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := postgres.Migrate(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return reportVersion(ctx, db, logger)
}

func reportVersion(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	version, err := postgres.MigrationVersion(ctx, db, logger)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("Database schema version", "version", version)
	return nil
}
