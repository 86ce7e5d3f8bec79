// Package cli holds what every tramo subcommand shares: the application
// container, output formatting and exit codes.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/thenoetrevino/tramo/internal/app"
	"github.com/thenoetrevino/tramo/internal/config"
	"github.com/thenoetrevino/tramo/internal/database"
	"github.com/thenoetrevino/tramo/internal/events"
	"github.com/thenoetrevino/tramo/internal/logging"
	"github.com/thenoetrevino/tramo/internal/metrics"
	"github.com/thenoetrevino/tramo/internal/testutil"
)

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config
	db     *sql.DB // nil when the app was injected
	ctx    context.Context

	registry    *prometheus.Registry
	metricsOut  io.Writer       // receives the metrics on Close when set
	journalDone <-chan struct{} // closed once every event has been logged
}

// NewCLI loads the config, opens the database and wires the services
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.Logging); err != nil {
		// Logging is best effort; commands still work without a log file
		slog.Warn("failed to initialize logging", "error", err)
	}

	db, err := database.InitDB(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	broker := events.NewBroker(cfg.Events.BufferSize, slog.Default())
	changes, _, err := broker.Subscribe("")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}

	registry := prometheus.NewRegistry()
	application := app.New(db,
		app.WithEventPublisher(broker),
		app.WithLogger(slog.Default()),
		app.WithRegisterer(registry),
	)

	return &CLI{
		App:         application,
		Config:      cfg,
		db:          db,
		ctx:         ctx,
		registry:    registry,
		journalDone: events.Journal(changes, slog.Default()),
	}, nil
}

// GetCLIFromContext returns a CLI around the app stored in ctx by tests, or
// a freshly initialized one
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if testApp, ok := ctx.Value(testutil.TestAppKey).(*app.App); ok && testApp != nil {
		return &CLI{
			App:    testApp,
			Config: config.Default(),
			ctx:    ctx,
		}, nil
	}
	return NewCLI(ctx)
}

// Close cleans up CLI resources. An injected app is left to its owner.
// Pending events are logged and, when requested, the metrics are written
// before the database closes.
func (c *CLI) Close() error {
	if c.db == nil {
		return nil
	}
	if err := c.App.Close(); err != nil {
		slog.Error("failed to close event publisher", "error", err)
	}
	if c.journalDone != nil {
		<-c.journalDone
	}
	if c.metricsOut != nil && c.registry != nil {
		if err := metrics.WriteText(c.metricsOut, c.registry); err != nil {
			slog.Error("failed to write metrics", "error", err)
		}
	}
	return c.db.Close()
}
