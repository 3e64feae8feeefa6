package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/config"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/database"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/gateway"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/handler"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/middleware"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/payment"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/queue"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/repository"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/router"
)

func main() {
	// Load .env first so config.Load sees the same variables locally as
	// it does in production. Missing file is fine outside development.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // rate limiting and response cache

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	centers := repository.NewCenterRepo(db)
	codes := repository.NewPaymentCodeRepo(db)
	pendings := repository.NewPendingPaymentRepo(db)
	smsLogs := repository.NewSmsLogRepo(db)
	invoices := repository.NewQPayInvoiceRepo(db)

	// Payment domain: code registry, pending ledger, plan activation and
	// the SMS reconciliation pipeline on top of them.
	registry := payment.NewCodeRegistry(codes)
	ledger := payment.NewPendingLedger(pendings)
	activator := payment.NewPlanActivator(users)
	reconciler := payment.NewReconciler(payment.DefaultParsers(), smsLogs, registry, ledger, activator)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterBookings(e, handler.NewBookingHandler(bookings, centers), cfg.JWTSecret, cfg.WebhookAPIKey)
	router.RegisterPayments(e, handler.NewPaymentHandler(registry, reconciler, users), cfg.JWTSecret, cfg.WebhookAPIKey)
	router.RegisterSubscriptions(e, handler.NewSubscriptionHandler(users, ledger, registry, activator),
		cfg.JWTSecret, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// QPay is optional: without merchant credentials the site runs on
	// bank-transfer codes and SMS reconciliation only.
	if cfg.QPayBaseURL != "" {
		client := gateway.NewQPayClient(gateway.QPayConfig{
			BaseURL:     cfg.QPayBaseURL,
			Username:    cfg.QPayUsername,
			Password:    cfg.QPayPassword,
			InvoiceCode: cfg.QPayInvoiceCode,
			CallbackURL: cfg.QPayCallbackURL,
		})
		router.RegisterQPay(e, handler.NewQPayHandler(client, invoices, activator), cfg.JWTSecret)
	}

	// Event consumer for booking and activation notifications. Runs its
	// own reconnect loop; a missing broker URL disables it.
	if cfg.RabbitURL != "" {
		go func() {
			if err := queue.StartEventConsumer(cfg.RabbitURL); err != nil {
				log.Printf("event consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
