package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/minhngdev/foodcourt-backend/api/routes"
	"github.com/minhngdev/foodcourt-backend/internal/accounts"
	"github.com/minhngdev/foodcourt-backend/internal/catalog"
	"github.com/minhngdev/foodcourt-backend/internal/follows"
	"github.com/minhngdev/foodcourt-backend/internal/notifications"
	"github.com/minhngdev/foodcourt-backend/internal/orders"
	"github.com/minhngdev/foodcourt-backend/internal/payments"
	"github.com/minhngdev/foodcourt-backend/internal/reporting"
	"github.com/minhngdev/foodcourt-backend/internal/reviews"
	"github.com/minhngdev/foodcourt-backend/internal/stores"
	momowebhook "github.com/minhngdev/foodcourt-backend/internal/webhooks/momo"
	"github.com/minhngdev/foodcourt-backend/pkg/config"
	"github.com/minhngdev/foodcourt-backend/pkg/db"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
	"github.com/minhngdev/foodcourt-backend/pkg/mailer"
	"github.com/minhngdev/foodcourt-backend/pkg/migrate"
	"github.com/minhngdev/foodcourt-backend/pkg/momo"
	"github.com/minhngdev/foodcourt-backend/pkg/outbox"
	"github.com/minhngdev/foodcourt-backend/pkg/redis"
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

	momoClient, err := momo.NewClient(cfg.Momo)
	if err != nil {
		logg.Error(context.Background(), "failed to create momo client", err)
		os.Exit(1)
	}

	sender, err := mailer.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to create smtp sender", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	accountsService, err := accounts.NewService(accounts.NewRepository(gormDB), cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	storesService, err := stores.NewService(stores.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create stores service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	gatewayRegistry := payments.NewRegistry(
		payments.NewMomoGateway(momoClient),
		payments.NewStubGateway(enums.PaymentMethodPaypal),
		payments.NewStubGateway(enums.PaymentMethodStripe),
		payments.NewStubGateway(enums.PaymentMethodZalopay),
	)
	ipnURL := strings.TrimRight(cfg.App.BaseURL, "/") + "/api/v1/webhooks/momo"
	paymentsService, err := payments.NewService(payments.NewRepository(gormDB), dbClient, gatewayRegistry, ipnURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	followsRepo := follows.NewRepository(gormDB)
	followsService, err := follows.NewService(followsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create follows service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviews.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(
		notifications.NewRepository(gormDB),
		followsRepo,
		accounts.NewRepository(gormDB),
		sender,
		cfg.Notify,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	reportingService, err := reporting.NewService(reporting.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create reporting service", err)
		os.Exit(1)
	}

	momoWebhookService, err := momowebhook.NewService(momowebhook.NewRepository(gormDB), dbClient, momoClient, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create momo webhook service", err)
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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Accounts:      accountsService,
			Stores:        storesService,
			Catalog:       catalogService,
			Orders:        ordersService,
			Payments:      paymentsService,
			Follows:       followsService,
			Reviews:       reviewsService,
			Notifications: notificationsService,
			Reporting:     reportingService,
			MomoWebhook:   momoWebhookService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
