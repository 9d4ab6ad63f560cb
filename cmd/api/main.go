// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Memry photobook HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Open the photo bucket.
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/memry/photobook/internal/admin"
	"github.com/memry/photobook/internal/api"
	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/internal/demo"
	"github.com/memry/photobook/internal/editor"
	"github.com/memry/photobook/internal/photo"
	"github.com/memry/photobook/internal/photobook"
	"github.com/memry/photobook/internal/platform/blob"
	blobminio "github.com/memry/photobook/internal/platform/blob/minio"
	blobs3 "github.com/memry/photobook/internal/platform/blob/s3"
	"github.com/memry/photobook/internal/platform/config"
	"github.com/memry/photobook/internal/platform/constants"
	"github.com/memry/photobook/internal/platform/migration"
	pgstore "github.com/memry/photobook/internal/platform/postgres"
	redisstore "github.com/memry/photobook/internal/platform/redis"
	"github.com/memry/photobook/internal/platform/sec"
	"github.com/memry/photobook/internal/viewer"
	"github.com/memry/photobook/internal/wizard"
)

// bucket is the blob store plus the reachability check both drivers offer.
type bucket interface {
	blob.Store
	Ping(context context.Context) error
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "memry"))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "memry"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("blob_driver", cfg.BlobDriver),
	)

	// Bounded so a misconfigured dependency fails startup instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Photo Bucket ───────────────────────────────────────────────────
	photoBucket, err := newBucket(startupCtx, cfg)
	must(log, err, "open photo bucket")

	// ── 7. Auth ───────────────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckBlob: func() error {
			return photoBucket.Ping(context.Background())
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(pool), log)
	photoService := photo.NewService(photo.NewPostgresRepository(pool), photoBucket, cfg.UploadURLTTL, log)
	photobookService := photobook.NewService(photobook.NewPostgresRepository(pool), catalogService, photoService, log)

	wizardService := wizard.NewService(wizard.NewRedisStore(rdb, cfg.WizardSessionTTL), catalogService, photobookService, log)
	editorService := editor.NewService(editor.NewRedisStore(rdb, cfg.EditorSessionTTL), photobookService, photoService, log)
	viewerService := viewer.NewService(photobookService, log)

	adminService := admin.NewService(
		admin.NewPostgresRepository(pool),
		admin.NewRedisSessionStore(rdb),
		jwtSvc,
		cfg.AdminSessionTTL,
		log,
	)
	demoService := demo.NewService(catalogService, photobookService, photoService, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Catalog:   catalog.NewHandler(catalogService),
		Photobook: photobook.NewHandler(photobookService),
		Photo:     photo.NewHandler(photoService),
		Wizard:    wizard.NewHandler(wizardService),
		Editor:    editor.NewHandler(editorService),
		Viewer:    viewer.NewHandler(viewerService),
		Admin:     admin.NewHandler(adminService),
		Demo:      demo.NewHandler(demoService),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, adminService, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newBucket opens the configured blob driver and checks the bucket is reachable.
func newBucket(context context.Context, cfg *config.Config) (bucket, error) {
	var (
		store bucket
		err   error
	)

	switch cfg.BlobDriver {
	case config.BlobDriverMinio:
		store, err = blobminio.New(blobminio.Options{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UseSSL:        cfg.S3UseSSL,
			PathStyle:     cfg.S3PathStyle,
			PublicBaseURL: cfg.S3PublicBaseURL,
			PresignGetTTL: cfg.S3PresignGetTTL,
		})
	default:
		store, err = blobs3.New(context, blobs3.Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PathStyle:     cfg.S3PathStyle,
			PublicBaseURL: cfg.S3PublicBaseURL,
			PresignGetTTL: cfg.S3PresignGetTTL,
		})
	}
	if err != nil {
		return nil, err
	}

	if err := store.Ping(context); err != nil {
		return nil, err
	}
	return store, nil
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
