package main

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pace_service_tool/internal/config"
	"pace_service_tool/internal/handlers"
	"pace_service_tool/internal/logger"
	"pace_service_tool/internal/repository"
	"pace_service_tool/internal/repository/db"
	"pace_service_tool/internal/server"
	"pace_service_tool/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load configs/config.yml (optional) and PST_* overrides
	cfg, err := config.Load("configs", ".")
	if err != nil {
		logger.Get(logger.Config{Level: logger.InfoLevel}).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log)
	defer func() { _ = log.Sync() }()

	codec, err := repository.CodecByName(cfg.Storage.Codec)
	if err != nil {
		log.Fatalw("invalid storage codec", "err", err)
	}

	conn, err := openDB(cfg.DB, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn, codec)
	services := service.NewService(repos, newTelemetry(cfg.Telemetry), log)
	apiHandler := handlers.NewHandler(services, log)

	// read the stored form once; later edits save after every change
	rec := services.Form.Load(context.Background())
	log.Infow("form loaded",
		"slot", repository.FormSlotKey,
		"codec", codec.Name(),
		"manufacturer", rec.Manufacturer,
		"compressors", rec.CompressorCount,
	)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Server, apiHandler, log)

	waitForShutdown(srv, log)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg config.DBConfig, log *logger.Logger) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "pst.db")
		path = "pst.db"
	}
	return db.InitDB(path)
}

// newTelemetry builds the simulator; a non-zero seed makes runs reproducible.
func newTelemetry(cfg config.TelemetryConfig) *service.TelemetryService {
	if cfg.Seed == 0 {
		return service.NewTelemetryService(nil, nil)
	}
	return service.NewTelemetryService(rand.NewPCG(cfg.Seed, cfg.Seed), nil)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, cfg server.Config, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", cfg.Port)
		if err := srv.Run(cfg, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
