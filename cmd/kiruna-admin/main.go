package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"kiruna/internal/auth"
	"kiruna/internal/cache"
	"kiruna/internal/cli"
	"kiruna/internal/config"
	"kiruna/internal/database"
	"kiruna/internal/database/migration"
	"kiruna/internal/logger"
	"kiruna/internal/repository/postgres"
	"kiruna/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(opener(cfg, log)).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// opener connects to the database and the cache only when a command needs them.
func opener(cfg *config.AppConfig, log *zap.Logger) cli.Opener {
	return func(ctx context.Context) (*cli.Runtime, func(), error) {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		c, err := cache.New(ctx, cfg.Redis, log)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

		rt := &cli.Runtime{
			Migrate: func(ctx context.Context) error {
				return migration.EnsureMigrated(ctx, db.DB, log, cfg.Database.Host)
			},
			Users:        service.NewUserService(postgres.NewUserPostgres(db), tokens),
			Stakeholders: service.NewStakeholderService(postgres.NewStakeholderPostgres(db), c),
			DocTypes:     service.NewDocumentTypeService(postgres.NewDocumentTypePostgres(db), c),
		}
		release := func() {
			_ = c.Close()
			_ = db.Close()
		}
		return rt, release, nil
	}
}
