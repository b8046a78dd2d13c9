package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pr-poehali-dev/inventory-management-system-4/api/routes"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/catalog"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/draft"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/invoices"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/printing"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/seed"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/config"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/db"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/logger"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/metrics"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.Run(context.Background(), dbClient, logg); err != nil {
		logg.Error(context.Background(), "failed to migrate schema", err)
		os.Exit(1)
	}

	catalogSvc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	draftSvc, err := draft.NewService(draft.NewRepository(dbClient.DB()), catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create draft service", err)
		os.Exit(1)
	}

	invoiceSvc, err := invoices.NewService(
		dbClient,
		invoices.NewRepository(dbClient.DB()),
		draft.NewRepository(dbClient.DB()),
		catalog.NewRepository(dbClient.DB()),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	renderer, err := printing.NewRenderer()
	if err != nil {
		logg.Error(context.Background(), "failed to create document renderer", err)
		os.Exit(1)
	}

	if cfg.Seed.DemoData {
		if err := seed.Run(context.Background(), catalogSvc, logg); err != nil {
			logg.Error(context.Background(), "failed to seed demo catalog", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Catalog:     catalogSvc,
			Draft:       draftSvc,
			Invoices:    invoiceSvc,
			Renderer:    renderer,
			HTTPMetrics: httpMetrics,
			Registry:    registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
