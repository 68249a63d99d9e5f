package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-fsrs/internal/config"
	"github.com/phrazzld/scry-fsrs/internal/domain/fsrs"
	"github.com/phrazzld/scry-fsrs/internal/platform/postgres"
	"github.com/phrazzld/scry-fsrs/internal/service/card_review"
	"github.com/phrazzld/scry-fsrs/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores
	cardStore store.CardStateStore
	logStore  store.ReviewLogStore

	// Service interfaces
	scheduler         fsrs.Service
	cardReviewService card_review.CardReviewService
}

// newApplication wires stores and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	params, err := cfg.Scheduler.Params()
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler parameters: %w", err)
	}

	app.scheduler, err = fsrs.NewServiceWithParams(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	logger.Info("FSRS scheduler initialized",
		"request_retention", params.RequestRetention,
		"maximum_interval", params.MaximumInterval,
		"graduation_threshold", params.GraduationThreshold)

	app.cardStore = postgres.NewPostgresCardStateStore(db, logger)
	app.logStore = postgres.NewPostgresReviewLogStore(db, logger)

	app.cardReviewService = card_review.NewCardReviewService(
		db,
		app.cardStore,
		app.logStore,
		app.scheduler,
		logger,
		card_review.WithSessionLimits(card_review.SessionLimits{
			NewCardsPerDay: cfg.Session.NewCardsPerDay,
			MaxDueCards:    cfg.Session.MaxDueCards,
		}),
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
