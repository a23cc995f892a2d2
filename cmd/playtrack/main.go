// PlayTrack - Arcade Device Usage Tracker
//
// This is the main entry point for the PlayTrack application. PlayTrack
// consumes game start/end events from arcade devices over MQTT, records
// usage sessions in SQLite, and serves usage reports over HTTP with live
// updates via WebSocket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/playtrack/playtrack-core/migrations"

	"github.com/playtrack/playtrack-core/internal/api"
	"github.com/playtrack/playtrack-core/internal/infrastructure/config"
	"github.com/playtrack/playtrack-core/internal/infrastructure/database"
	"github.com/playtrack/playtrack-core/internal/infrastructure/influxdb"
	"github.com/playtrack/playtrack-core/internal/infrastructure/logging"
	"github.com/playtrack/playtrack-core/internal/infrastructure/mqtt"
	"github.com/playtrack/playtrack-core/internal/session"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting PlayTrack",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Session store
	sessionRepo := session.NewSQLiteRepository(db.DB)

	// MQTT event bus. Run() owns the connection and reconnects with
	// backoff until the context is cancelled.
	bus := mqtt.New(cfg.MQTT, log.With("component", "mqtt"))

	// API server is created before the tracker so its WebSocket hub can
	// serve as the tracker's change notifier.
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WS,
		Logger:   log,
		Sessions: sessionRepo,
		DB:       db,
		MQTT:     bus,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Session tracker
	tracker := session.NewTracker(sessionRepo, apiServer.Hub(), log.With("component", "tracker"))

	// Connect to InfluxDB (optional usage export)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		tracker.SetRecorder(influxClient)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	busDone := make(chan error, 1)
	go func() {
		busDone <- bus.Run(ctx)
	}()
	log.Info("MQTT consumer starting",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"topic", cfg.MQTT.Topic,
	)

	// Consume events sequentially; ordering is what keeps the
	// one-open-session rule enforceable.
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for msg := range bus.Messages() {
			// Background context: in-flight events still get applied
			// while draining after the run context is cancelled.
			if handleErr := tracker.HandleMessage(context.Background(), msg.Payload); handleErr != nil {
				log.Error("failed to apply event", "topic", msg.Topic, "error", handleErr)
			}
		}
	}()

	// Start API server
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// The bus closes its message channel once Run returns, letting the
	// consumer drain in-flight events before we tear down storage.
	if runErr := <-busDone; runErr != nil {
		log.Warn("MQTT consumer stopped with error", "error", runErr)
	}
	<-consumerDone

	log.Info("PlayTrack stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses PLAYTRACK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PLAYTRACK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
