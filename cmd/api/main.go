package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/payvault-io/payvault-backend/api/routes"
	"github.com/payvault-io/payvault-backend/internal/authz"
	"github.com/payvault-io/payvault-backend/internal/checkout"
	"github.com/payvault-io/payvault-backend/internal/identity"
	"github.com/payvault-io/payvault-backend/internal/ledger"
	"github.com/payvault-io/payvault-backend/internal/stripeconfig"
	"github.com/payvault-io/payvault-backend/pkg/config"
	"github.com/payvault-io/payvault-backend/pkg/db"
	"github.com/payvault-io/payvault-backend/pkg/logger"
	"github.com/payvault-io/payvault-backend/pkg/metrics"
	"github.com/payvault-io/payvault-backend/pkg/migrate"
	"github.com/payvault-io/payvault-backend/pkg/outbox"
	"github.com/payvault-io/payvault-backend/pkg/redis"
	"github.com/payvault-io/payvault-backend/pkg/security"
	"github.com/payvault-io/payvault-backend/pkg/stripe"
)

const shutdownGrace = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	box, err := security.NewSecretBox(cfg.Secrets.ConfigKey)
	if err != nil {
		logg.Error(context.Background(), "failed to load config encryption key", err)
		os.Exit(1)
	}

	events, err := outbox.NewService(outbox.NewRepository())
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox service", err)
		os.Exit(1)
	}

	authzService := authz.NewService(cfg.Admin)

	identityService, err := identity.NewService(identity.NewRepository(dbClient.DB()), dbClient, events)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	configService, err := stripeconfig.NewService(stripeconfig.NewRepository(dbClient.DB()), dbClient, authzService, box)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe config service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(configService, stripe.NewClient(cfg.Checkout.ProviderTimeout))
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()), dbClient, events, identityService)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			Metrics:      metrics.New("api"),
			DB:           dbClient,
			Redis:        redisClient,
			Authz:        authzService,
			Identity:     identityService,
			StripeConfig: configService,
			Checkout:     checkoutService,
			Ledger:       ledgerService,
		}),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
