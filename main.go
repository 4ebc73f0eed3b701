package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/My-riad/jit-tdexn2-sub003/database"
	"github.com/My-riad/jit-tdexn2-sub003/internal/jobs"
	"github.com/My-riad/jit-tdexn2-sub003/internal/migrations"
	"github.com/My-riad/jit-tdexn2-sub003/internal/models"
	"github.com/My-riad/jit-tdexn2-sub003/internal/routes"
	"github.com/My-riad/jit-tdexn2-sub003/internal/storage"
)

const version = "1.0.0"

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	// Initialize storage
	var store storage.Store

	// Check if we should use memory store (for testing)
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		// Connect to database
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		// Apply schema migrations
		log.Println("🔄 Applying schema migrations...")
		runner := migrations.NewRunner(database.DB)
		if err := runner.Up(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations:", err)
		}
		log.Println("✅ Schema migrations applied")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Start the load expiry sweeper
	sweepInterval := 15 * time.Minute
	if raw := os.Getenv("EXPIRY_SWEEP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			sweepInterval = d
		} else {
			log.Printf("⚠️  Invalid EXPIRY_SWEEP_INTERVAL %q, using default", raw)
		}
	}
	expiryJob := jobs.NewExpiryJob(store, sweepInterval)
	expiryJob.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Carrier Portal Backend v" + version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Admin-Token",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	// Service banner with database status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service":     "Carrier Portal Backend API",
			"version":     version,
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(),
		}

		// Add database status if using database
		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var shipperCount, loadCount, hubCount int64
			database.DB.Model(&models.Shipper{}).Count(&shipperCount)
			database.DB.Model(&models.Load{}).Count(&loadCount)
			database.DB.Model(&models.SmartHub{}).Count(&hubCount)

			response["database"] = fiber.Map{
				"status":     dbStatus,
				"shippers":   shipperCount,
				"loads":      loadCount,
				"smart_hubs": hubCount,
			}
		}

		return c.JSON(response)
	})

	// Setup routes
	routes.SetupRoutes(app, store, version)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		expiryJob.Stop()
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 Carrier Portal Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}
