package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"kiruna/internal/auth"
	"kiruna/internal/cache"
	"kiruna/internal/config"
	"kiruna/internal/database"
	"kiruna/internal/database/migration"
	handlers "kiruna/internal/http/handler"
	"kiruna/internal/http/middleware"
	"kiruna/internal/logger"
	"kiruna/internal/otel"
	"kiruna/internal/repository/postgres"
	"kiruna/internal/service"
	"kiruna/internal/storage"
)

// @title Kiruna eXplorer API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server_failed", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// PostgreSQL pool (pgx driver traced by otelsql, wrapped in sqlx)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db.DB, log, cfg.Database.Host); err != nil {
		return err
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, log)
	if err != nil {
		return err
	}

	c, err := cache.New(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer c.Close()

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	stakeholderRepo := postgres.NewStakeholderPostgres(db)
	typeRepo := postgres.NewDocumentTypePostgres(db)
	coordRepo := postgres.NewCoordinatePostgres(db)
	mediaRepo := postgres.NewMediaPostgres(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := handlers.NewApp(handlers.Deps{
		Log:            log,
		DB:             db.DB,
		Storage:        objStore,
		Tokens:         tokens,
		Metrics:        metrics,
		Gatherer:       reg,
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Users:          service.NewUserService(postgres.NewUserPostgres(db), tokens),
		Stakeholders:   service.NewStakeholderService(stakeholderRepo, c),
		DocTypes:       service.NewDocumentTypeService(typeRepo, c),
		Coordinates:    service.NewCoordinateService(coordRepo),
		Documents: service.NewDocumentService(service.DocumentDeps{
			Documents:    docRepo,
			Stakeholders: stakeholderRepo,
			Types:        typeRepo,
			Media:        mediaRepo,
			Coordinates:  coordRepo,
			Cache:        c,
		}),
		Media: service.NewMediaService(objStore, mediaRepo, cfg.MinIO.PresignTTL),
		Graph: service.NewGraphService(docRepo, c),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}
