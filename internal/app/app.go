package app

import (
	"database/sql"
	"log/slog"

	"github.com/thenoetrevino/tramo/internal/events"
	"github.com/thenoetrevino/tramo/internal/metrics"
	"github.com/thenoetrevino/tramo/internal/sequence"
	courseservice "github.com/thenoetrevino/tramo/internal/services/course"
	moduleservice "github.com/thenoetrevino/tramo/internal/services/module"
	progressservice "github.com/thenoetrevino/tramo/internal/services/progress"
	projectservice "github.com/thenoetrevino/tramo/internal/services/project"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	db *sql.DB

	// Event system for live updates
	eventClient events.EventPublisher

	// Metrics records sequence engine outcomes
	Metrics *metrics.Recorder

	// Service layer (business logic)
	CourseService   courseservice.Service
	ModuleService   moduleservice.Service
	ProjectService  projectservice.Service
	ProgressService progressservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(db *sql.DB, opts ...Option) *App {
	cfg := &appConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	recorder := metrics.NewRecorder(cfg.registerer)

	// Module and project engines share one lock table so writers of the
	// same group never interleave
	engineOpts := []sequence.Option{
		sequence.WithLogger(cfg.logger),
		sequence.WithRecorder(recorder),
		sequence.WithLocks(sequence.NewGroupLocks()),
	}

	return &App{
		db:              db,
		eventClient:     cfg.eventClient,
		Metrics:         recorder,
		CourseService:   courseservice.NewService(db, cfg.eventClient),
		ModuleService:   moduleservice.NewService(db, cfg.eventClient, engineOpts...),
		ProjectService:  projectservice.NewService(db, cfg.eventClient, engineOpts...),
		ProgressService: progressservice.NewService(db, cfg.eventClient, engineOpts...),
	}
}

// DB returns the underlying database handle
func (a *App) DB() *sql.DB {
	return a.db
}

// Close releases the event publisher. The database is owned by the caller.
func (a *App) Close() error {
	if a.eventClient == nil {
		return nil
	}
	return a.eventClient.Close()
}
