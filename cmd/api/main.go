// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/coupon"
	"github.com/varahajewels/ecommerce-backend/internal/domain/customer"
	"github.com/varahajewels/ecommerce-backend/internal/domain/gateway"
	"github.com/varahajewels/ecommerce-backend/internal/domain/notification"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/domain/payment"
	"github.com/varahajewels/ecommerce-backend/internal/domain/product"
	"github.com/varahajewels/ecommerce-backend/internal/domain/report"
	"github.com/varahajewels/ecommerce-backend/internal/domain/settings"
	"github.com/varahajewels/ecommerce-backend/internal/domain/shipping"
	"github.com/varahajewels/ecommerce-backend/internal/domain/tax"
	"github.com/varahajewels/ecommerce-backend/internal/domain/tracking"
	"github.com/varahajewels/ecommerce-backend/internal/infrastructure/database/postgres"
	"github.com/varahajewels/ecommerce-backend/internal/infrastructure/database/redis"
	httpserver "github.com/varahajewels/ecommerce-backend/internal/interfaces/http"
	"github.com/varahajewels/ecommerce-backend/internal/interfaces/http/handlers"
	"github.com/varahajewels/ecommerce-backend/internal/interfaces/http/routes"
	"github.com/varahajewels/ecommerce-backend/internal/pkg/email"
	"github.com/varahajewels/ecommerce-backend/internal/pkg/monitor"
	"github.com/varahajewels/ecommerce-backend/internal/pkg/pdf"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting server")

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	migration := postgres.NewMigration(db.GetDB(), logger)
	if err := migration.RunAutoMigrations(); err != nil {
		logger.WithError(err).Fatal("Database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		logger.WithError(err).Warn("Index creation failed")
	}
	if err := migration.SeedInitialData(); err != nil {
		logger.WithError(err).Warn("Data seeding failed")
	}

	collector := monitor.NewCollector()

	// Domain services
	taxCalculator := tax.NewCalculator(cfg)
	shippingClient := shipping.NewRapidShypClient(cfg, logger)
	gatewayService := gateway.NewService(db.GetDB())
	razorpayService := payment.NewRazorpayService(gatewayService, logger)
	settingsService := settings.NewService(db.GetDB())
	customerService := customer.NewService(db.GetDB(), cfg, logger)
	productService := product.NewService(db.GetDB(), logger)
	couponService := coupon.NewService(db.GetDB())
	reportService := report.NewService(db.GetDB(), cfg, settingsService, logger)
	pdfService := pdf.NewService(cfg)

	emailService := email.NewEmailService(cfg, logger)
	telegramClient := notification.NewTelegramClient(cfg.External.Telegram, logger)
	notificationService := notification.NewService(cfg, emailService, telegramClient, logger)

	orderService := order.NewService(db.GetDB(), cfg, taxCalculator, shippingClient, notificationService, logger)
	notificationService.SetStatusUpdater(orderService)

	trackingService := tracking.NewService(orderService, shippingClient, cfg, collector, logger)

	h := &routes.Handlers{
		Auth:     handlers.NewAuthHandler(customerService),
		Orders:   handlers.NewOrderHandler(orderService, customerService),
		Tracking: handlers.NewTrackingHandler(trackingService, cfg, logger),
		Shipping: handlers.NewShippingHandler(shippingClient, cfg),
		Payments: handlers.NewPaymentHandler(razorpayService, gatewayService, orderService, logger),
		Gateways: handlers.NewGatewayHandler(gatewayService),
		Returns:  handlers.NewReturnHandler(orderService),
		Products: handlers.NewProductHandler(productService),
		Coupons:  handlers.NewCouponHandler(couponService),
		Reports:  handlers.NewReportHandler(reportService),
		Settings: handlers.NewSettingsHandler(settingsService),
		Monitor:  handlers.NewMonitorHandler(collector),
		Invoices: handlers.NewInvoiceHandler(orderService, settingsService, pdfService),
	}

	server := httpserver.NewServer(cfg, db.GetDB(), redisClient.GetClient(), collector, h, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	// Let in-flight notification goroutines finish before exit
	notificationService.Wait()

	logger.Info("Server shutdown completed")
}
