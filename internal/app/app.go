// Package app wires configuration, storage backends, services, and the
// transport layers into runnable server and worker processes.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mkravets/filehub/internal/api"
	"github.com/mkravets/filehub/internal/blob"
	"github.com/mkravets/filehub/internal/cache"
	"github.com/mkravets/filehub/internal/config"
	"github.com/mkravets/filehub/internal/logging"
	"github.com/mkravets/filehub/internal/migrations"
	"github.com/mkravets/filehub/internal/queue"
	"github.com/mkravets/filehub/internal/repositories/files"
	"github.com/mkravets/filehub/internal/repositories/users"
	"github.com/mkravets/filehub/internal/services"
	"github.com/mkravets/filehub/internal/worker"
)

// App holds the shared backends both processes run on.
type App struct {
	cfg    *config.Config
	logger logging.Logger

	db    *sql.DB
	cache *cache.RedisCache
	queue *queue.RedisQueue
	blobs blob.Store
}

// New opens the shared backends described by the configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
		cache:  cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword),
		queue:  queue.NewRedisQueue(cfg.RedisAddr, cfg.RedisPassword, cfg.QueueName),
		blobs:  blobs,
	}, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendLocal:
		return blob.NewLocalStore(cfg.LocalBlobDir)
	case config.BlobBackendS3:
		return blob.NewS3Store(ctx, blob.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}

// RunServer migrates the schema and serves the HTTP API until a shutdown
// signal arrives.
func (a *App) RunServer() error {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer a.close()

	if err := migrations.Up(ctx, a.db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	usersRepo := users.NewPostgresRepository(a.db)
	filesRepo := files.NewPostgresRepository(a.db)

	sessions := services.NewSessionService(usersRepo, a.cache, a.cfg.SessionTTL)
	usersSvc := services.NewUserService(usersRepo)
	filesSvc := services.NewFileService(filesRepo, a.blobs, a.queue, a.logger)
	statsSvc := services.NewStatsService(usersRepo, filesRepo, a.cache, a.db)

	handler := api.NewHandler(sessions, usersSvc, filesSvc, statsSvc, a.logger)
	server := api.NewServer(a.cfg.EndpointAddr, handler.Routes(), a.logger)

	a.logger.Info(ctx, "starting api server", "addr", a.cfg.EndpointAddr,
		"blob_backend", a.cfg.BlobBackend)
	return server.Run(ctx)
}

// RunWorker consumes thumbnail jobs until a shutdown signal arrives.
func (a *App) RunWorker() error {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer a.close()

	filesRepo := files.NewPostgresRepository(a.db)
	pipeline := worker.NewPipeline(a.queue, filesRepo, a.blobs, a.logger, a.cfg.WorkerConcurrency)

	a.logger.Info(ctx, "starting thumbnail worker", "queue", a.cfg.QueueName,
		"concurrency", a.cfg.WorkerConcurrency)
	pipeline.Run(ctx)
	return nil
}

func (a *App) close() {
	ctx := context.Background()
	if err := a.queue.Close(); err != nil {
		a.logger.Error(ctx, "closing queue", "error", err)
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error(ctx, "closing cache", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error(ctx, "closing database", "error", err)
	}
}
