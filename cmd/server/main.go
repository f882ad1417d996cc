package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"paraplus-backend/internal/api/rest"
	"paraplus-backend/internal/config"
	"paraplus-backend/internal/logger"
	"paraplus-backend/internal/repository/postgres"
	"paraplus-backend/internal/security"
	"paraplus-backend/internal/service"
	"paraplus-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Paraplus Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)
	googleVerifier := service.NewGoogleTokenVerifier(cfg.Google.ClientID)

	// Initialize Storage Service
	logger.Info("Using local storage", "upload_dir", cfg.Storage.UploadDir)
	storageService, err := storage.NewLocalStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	// Initialize Services
	authSvc := service.NewAuthService(store.Users, tokenManager, googleVerifier)
	catalogSvc := service.NewCatalogService(store.Products, store.Categories)
	cartSvc := service.NewCartService(store.Carts, store.Products)
	orderSvc := service.NewOrderService(store.Orders, store.Carts, store.Users, emailSvc, store.Notifications)
	rentalSvc := service.NewRentalService(store.Rentals, store.Products, store.Users, emailSvc, store.Notifications)
	paymentSvc := service.NewPaymentService(store.Payments, store.Orders, store.Rentals, store.Users, emailSvc, cfg.Checkout.Currency)
	noteSvc := service.NewNotificationService(store.Notifications)

	// Initialize HTTP API
	handlers := rest.Handlers{
		Auth:         rest.NewAuthHandler(authSvc),
		Catalog:      rest.NewCatalogHandler(catalogSvc),
		Cart:         rest.NewCartHandler(cartSvc),
		Order:        rest.NewOrderHandler(orderSvc, cfg.Checkout.ShippingFeeCents),
		Rental:       rest.NewRentalHandler(rentalSvc),
		Payment:      rest.NewPaymentHandler(paymentSvc),
		Notification: rest.NewNotificationHandler(noteSvc),
		Image:        rest.NewImageHandler(storageService, catalogSvc, cfg.Storage.MaxFileSize, cfg.Storage.AllowedTypes),
	}
	router := rest.NewRouter(handlers, tokenManager)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server stopped", "error", err)
		log.Fatalf("Server stopped: %v", err)
	}
}
