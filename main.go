package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sokoni-backend/config"
	"sokoni-backend/database"
	"sokoni-backend/internal/api"
	"sokoni-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	authService := services.NewAuthService(cfg.JWTSecret, time.Duration(cfg.JWTExpiration)*time.Second)
	userService := services.NewUserService(db)
	vendorService := services.NewVendorService(db, userService)
	categoryService := services.NewCategoryService(db)
	productService := services.NewProductService(db, vendorService, categoryService)
	cartService := services.NewCartService(db, productService)
	wishlistService := services.NewWishlistService(db, productService)
	favouriteService := services.NewFavouriteService(db, vendorService)
	emailService := services.NewEmailService(cfg)

	eventHub := services.NewEventHub()
	go eventHub.Run()

	var mailer services.OrderMailer
	if emailService != nil {
		mailer = emailService
	}
	orderService := services.NewOrderService(db, cartService, vendorService, mailer, eventHub)

	var storage services.Storage
	if cfg.StorageBackend == "gdrive" {
		storage = services.NewDriveStorage(cfg)
	} else {
		storage, err = services.NewLocalStorage(cfg.UploadPath, cfg.BaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize upload storage: %v", err)
		}
	}

	handler := api.NewHandler(cfg, authService, userService, vendorService, categoryService,
		productService, cartService, orderService, wishlistService, favouriteService,
		storage, eventHub)

	router := api.SetupRouter(cfg, handler, authService)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
