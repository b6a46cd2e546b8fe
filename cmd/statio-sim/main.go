package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/codeup/statio-portal/internal/sim/accounts"
	"github.com/codeup/statio-portal/internal/sim/audit"
	"github.com/codeup/statio-portal/internal/sim/parking"
	"github.com/codeup/statio-portal/internal/sim/routes"
	"github.com/codeup/statio-portal/internal/sim/seed"
	"github.com/codeup/statio-portal/pkg/config"
	"github.com/codeup/statio-portal/pkg/db"
	"github.com/codeup/statio-portal/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "statio-sim"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		logg.Error(context.Background(), "STATIO_JWT_SECRET is required", nil)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "statio-sim",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.Sim, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := seed.Migrate(dbClient.DB()); err != nil {
		logg.Error(context.Background(), "failed to migrate schema", err)
		os.Exit(1)
	}
	if cfg.Sim.SeedDemo {
		if err := seed.Demo(context.Background(), dbClient.DB(), cfg.Password, logg); err != nil {
			logg.Error(context.Background(), "failed to seed demo data", err)
			os.Exit(1)
		}
	}

	recorder := audit.NewRecorder(dbClient.DB(), logg)

	accountsService, err := accounts.NewService(accounts.Params{
		DB:       dbClient.DB(),
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Audit:    recorder,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	parkingService, err := parking.NewService(parking.Params{
		DB:     dbClient.DB(),
		Audit:  recorder,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create parking service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.Sim.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting simulator")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, accountsService, parkingService, recorder),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "simulator stopped unexpectedly", err)
		os.Exit(1)
	}
}
