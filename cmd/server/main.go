/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the employee directory server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, load config (YAML, .env, environment)
  2. Initialize zerolog
  3. Open the export sink selected by export.sink
  4. Wire notifiers (log, feed, Kafka when brokers are set)
  5. Seed the in-memory directory from the configured scenario
  6. Configure HTTP router, start the snapshot scheduler
  7. Serve until SIGINT/SIGTERM

COMMAND-LINE FLAGS:
  -config  YAML config file (optional)
  -port    HTTP server port, overrides config when set

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the snapshot scheduler, close Kafka and the export sink
  4. Exit

EXAMPLES:
  # Defaults: sample data, in-memory export sink
  ./server

  # Exports on disk, debug logging
  EXPORT_SINK=fs DIRECTORY_LOG_LEVEL=debug ./server

  # Everything from a file
  ./server -config=./directory.yaml

SEE ALSO:
  - config/config.go: Settings and environment variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/warp/employee-directory/api"
	"github.com/warp/employee-directory/config"
	"github.com/warp/employee-directory/directory"
	"github.com/warp/employee-directory/directory/store"
	"github.com/warp/employee-directory/export"
	"github.com/warp/employee-directory/logger"
	"github.com/warp/employee-directory/notify"
	"github.com/warp/employee-directory/sink"
	"github.com/warp/employee-directory/sink/fs"
	"github.com/warp/employee-directory/sink/memory"
	"github.com/warp/employee-directory/sink/postgres"
	"github.com/warp/employee-directory/sink/s3"
	"github.com/warp/employee-directory/sink/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "employee-directory: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	configPath := flag.String("config", "", "YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}

	log, logCloser, err := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Pretty: cfg.Log.Pretty,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Export sink
	blobs, closeBlobs, err := openSink(ctx, cfg.Export)
	if err != nil {
		return fmt.Errorf("export sink: %w", err)
	}
	defer closeBlobs()
	log.Info().Str("driver", string(blobs.Driver())).Msg("export sink ready")

	// Notifiers
	feed := notify.NewFeed(notify.DefaultFeedSize)
	notifiers := notify.Multi{notify.NewLog(log), feed}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := notify.NewAsyncProducer(cfg.Kafka.Brokers, cfg.Kafka.ClientID)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		bus := notify.NewKafka(producer, cfg.Kafka.Topic, log)
		defer bus.Close()
		notifiers = append(notifiers, bus)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka notifications enabled")
	}

	// Directory
	records, err := api.ScenarioRecords(cfg.Scenario)
	if err != nil {
		return err
	}
	session := directory.NewSession(store.NewMemory(records...), directory.WithNotifier(notifiers))

	handler := api.NewHandler(session, api.Options{
		Blobs:    blobs,
		Feed:     feed,
		Export:   export.Options{Legacy: cfg.Export.Legacy},
		Logger:   &log,
		Scenario: cfg.Scenario,
	})
	router := api.NewRouter(handler)

	snapshotFormat, err := export.ParseFormat(cfg.Export.SnapshotFormat)
	if err != nil {
		return err
	}
	scheduler := api.NewSnapshotScheduler(handler, snapshotFormat, cfg.Export.SnapshotInterval)
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Int("port", cfg.Port).
			Str("scenario", cfg.Scenario).
			Int("records", len(records)).
			Msgf("server starting on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// openSink builds the export store for cfg.Sink. The returned func releases
// any connections it holds.
func openSink(ctx context.Context, cfg config.Export) (sink.Store, func(), error) {
	nop := func() {}

	driver, err := sink.ParseDriver(cfg.Sink)
	if err != nil {
		return nil, nop, err
	}

	switch driver {
	case sink.DriverFS:
		st, err := fs.New(cfg.FSRoot)
		return st, nop, err
	case sink.DriverS3:
		st, err := s3.New(ctx, cfg.S3)
		return st, nop, err
	case sink.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nop, err
			}
		}
		st, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nop, err
		}
		return st, func() {
			if err := st.Close(); err != nil {
				l := logger.Global()
				l.Warn().Err(err).Msg("close export sink")
			}
		}, nil
	case sink.DriverPostgres:
		st, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nop, err
		}
		return st, st.Close, nil
	default:
		return memory.New(), nop, nil
	}
}
