package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fathomdev/fathom-api/internal/config"
	"github.com/fathomdev/fathom-api/internal/domain/srs"
	"github.com/fathomdev/fathom-api/internal/generation"
	"github.com/fathomdev/fathom-api/internal/platform/gemini"
	"github.com/fathomdev/fathom-api/internal/platform/postgres"
	"github.com/fathomdev/fathom-api/internal/service"
	"github.com/fathomdev/fathom-api/internal/service/auth"
	"github.com/fathomdev/fathom-api/internal/service/study"
)

// application holds the assembled dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService   auth.JWTService
	userService  service.UserService
	deckService  service.DeckService
	cardService  service.CardService
	studyService study.StudyService

	// generator is nil when no Gemini API key is configured; the
	// generate endpoint is not mounted in that case.
	generator generation.Generator
}

// newApplication wires up the application from configuration: database
// connection, migrations, stores, and services.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := postgres.MigrateUp(db, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	userStore := postgres.NewUserStore(db, logger)
	deckStore := postgres.NewDeckStore(db, logger)
	cardStore := postgres.NewCardStore(db, logger)
	stateStore := postgres.NewLearningStateStore(db, logger)
	eventStore := postgres.NewReviewEventStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		jwtService:  jwtService,
		userService: service.NewUserService(userStore, auth.NewBcryptHasher(), logger),
		deckService: service.NewDeckService(deckStore, logger),
		cardService: service.NewCardService(cardStore, deckStore, logger),
		studyService: study.NewStudyService(
			db, cardStore, deckStore, stateStore, eventStore,
			srs.NewDefaultService(), logger),
	}

	if cfg.LLM.GeminiAPIKey != "" {
		generator, err := gemini.NewGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create card generator: %w", err)
		}
		app.generator = generator
	} else {
		logger.Info("No Gemini API key configured, card draft generation disabled")
	}

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
