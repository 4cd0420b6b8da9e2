package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"cityguard/internal/adapters/http/middleware"
	"cityguard/internal/adapters/http/routes"
	"cityguard/internal/adapters/persistence/models"
	"cityguard/internal/config"
	"cityguard/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "cityguard/docs" // Swagger docs
)

// @title CityGuard API
// @version 1.0
// @description دليل المدينة: حسابات، منشآت تجارية، إعلانات، وظائف، وبنك متبرعين بالدم
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@cityguard.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.cityguard.app
// @BasePath /api
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the default admin account
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Local image storage for business and ad uploads
	storage, err := services.NewStorageService(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize image storage: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CityGuard API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, storage and cfg for dependency injection)
	routes.Setup(app, db, storage, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
