package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/amolina-dev/biblioteca-backend/api/routes"
	"github.com/amolina-dev/biblioteca-backend/internal/books"
	"github.com/amolina-dev/biblioteca-backend/internal/loans"
	"github.com/amolina-dev/biblioteca-backend/internal/purchases"
	"github.com/amolina-dev/biblioteca-backend/internal/reservations"
	"github.com/amolina-dev/biblioteca-backend/internal/tariffs"
	"github.com/amolina-dev/biblioteca-backend/internal/users"
	"github.com/amolina-dev/biblioteca-backend/pkg/config"
	"github.com/amolina-dev/biblioteca-backend/pkg/db"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
	"github.com/amolina-dev/biblioteca-backend/pkg/metrics"
	"github.com/amolina-dev/biblioteca-backend/pkg/migrate"
	"github.com/amolina-dev/biblioteca-backend/pkg/outbox"
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	policyMetrics := metrics.NewPolicyMetrics(registry)
	outboxRepo := outbox.NewRepository(dbClient.DB())
	tbl := tariffs.Default()

	userService, err := users.NewService(users.NewRepository(dbClient.DB()))
	exitOnError(logg, "user service", err)
	bookService, err := books.NewService(books.NewRepository(dbClient.DB()))
	exitOnError(logg, "book service", err)
	loanService, err := loans.NewService(dbClient, loans.NewRepository(dbClient.DB()), outboxRepo, tbl, policyMetrics, logg)
	exitOnError(logg, "loan service", err)
	reservationService, err := reservations.NewService(dbClient, reservations.NewRepository(dbClient.DB()), policyMetrics, logg)
	exitOnError(logg, "reservation service", err)
	purchaseService, err := purchases.NewService(dbClient, purchases.NewRepository(dbClient.DB()), outboxRepo, tbl, policyMetrics, logg)
	exitOnError(logg, "purchase service", err)

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
		Handler: routes.NewRouter(cfg, logg, dbClient, routes.Services{
			Users:        userService,
			Books:        bookService,
			Loans:        loanService,
			Reservations: reservationService,
			Purchases:    purchaseService,
		}, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnError(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
