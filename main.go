// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"centremart/backoffice"
	"centremart/cart"
	"centremart/catalog"
	"centremart/checkout"
	"centremart/config"
	"centremart/controllers"
	"centremart/middleware"
	"centremart/panels"
	"centremart/repository"
	"centremart/routes"
	"centremart/session"
	"centremart/upload"
	"centremart/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	// Connect to MongoDB
	client, err := utils.ConnectDB(context.Background(), cfg.MongoURI)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	db := client.Database(cfg.MongoDatabase)

	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)
	categories := repository.NewCategoryRepository(db)
	users := repository.NewUserRepository(db)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := users.EnsureAdmin(context.Background(), strings.ToLower(cfg.AdminEmail), cfg.AdminPassword)
		if err != nil {
			logger.Fatal("Failed to seed admin account", zap.Error(err))
		}
		if created {
			logger.Info("Admin account created", zap.String("email", cfg.AdminEmail))
		}
	}

	// Session state lives in a local SQLite file
	storage, err := cart.NewSQLiteStorage(cfg.SessionDBPath)
	if err != nil {
		logger.Fatal("Failed to open session storage", zap.String("path", cfg.SessionDBPath), zap.Error(err))
	}
	defer storage.Close()

	mailer, err := utils.NewMailer(cfg.EmailProvider, cfg.PostmarkAPIToken, cfg.SendGridAPIKey, cfg.EmailSender)
	if err != nil {
		logger.Fatal("Failed to configure email", zap.Error(err))
	}

	uploader := upload.NewClient(cfg.CloudinaryBaseURL, cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, logger)
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryUploadPreset == "" {
		logger.Warn("Cloudinary is not configured; product creation is disabled")
	}

	sessions, err := session.NewBoundedRegistry(storage, products, cfg.SessionCache, logger)
	if err != nil {
		logger.Fatal("Invalid session cache size", zap.Int("size", cfg.SessionCache), zap.Error(err))
	}
	checkoutService := checkout.NewService(orders, mailer, cfg.DeliveryAreas, logger)
	adminService := backoffice.NewService(products, orders, categories, catalog.New(uploader, products, logger), logger)

	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	routes.RegisterRoutes(router, routes.Controllers{
		User:    controllers.NewUserController(users, logger),
		Product: controllers.NewProductController(products, panels.NewBuilder(categories, products, logger), logger),
		Cart:    controllers.NewCartController(products, logger),
		Order:   controllers.NewOrderController(checkoutService, adminService, products, orders, logger),
		Admin:   controllers.NewAdminController(adminService, logger),
	}, sessions)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server is running", zap.String("port", cfg.Port), zap.String("database", cfg.MongoDatabase))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}
