// Package server initializes and runs the file server: configuration,
// database, migrations, blob storage backend, services and the HTTP API,
// with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/i2clabs/fileserver/internal/dbx"
	"github.com/i2clabs/fileserver/internal/logging"
	"github.com/i2clabs/fileserver/internal/server/config"
	"github.com/i2clabs/fileserver/internal/server/httpapi"
	"github.com/i2clabs/fileserver/internal/server/repositories/repomanager"
	"github.com/i2clabs/fileserver/internal/server/services"
	"github.com/i2clabs/fileserver/internal/storage"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop
// signal.
const shutdownTimeout = 10 * time.Second

// App wires the whole server together.
type App struct {
	config *config.Config
	logger logging.Logger
	server *http.Server
	db     *sql.DB
}

// NewApp builds the application: connects to the database, runs migrations,
// selects the blob backend and assembles services and the HTTP router.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(cfg.LogLevel)

	db, err := dbx.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	authSvc := services.NewAuthService(db, rm, cfg)
	hierarchySvc := services.NewHierarchyService(db, rm, store, logger)
	shareSvc := services.NewShareService(db, rm, store, logger)
	systemSvc := services.NewSystemService(store, logger)

	handler := httpapi.NewHandler(authSvc, hierarchySvc, shareSvc, systemSvc, logger)
	router := httpapi.NewRouter(cfg, handler)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		server: &http.Server{
			Addr:              cfg.EndpointAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageType {
	case config.StorageS3:
		return storage.NewS3Store(ctx, storage.S3Options{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case config.StorageLocal:
		return storage.NewLocalStore(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a stop signal arrives, then
// drains in-flight requests and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "server listening", "addr", app.config.EndpointAddr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		_ = app.db.Close()
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err.Error())
	}

	return app.db.Close()
}
