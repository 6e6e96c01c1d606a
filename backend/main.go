package main

import (
	"log"

	"coachhub/backend/config"
	"coachhub/backend/jobs"
	"coachhub/backend/middleware"
	"coachhub/backend/routes"
	"coachhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger and mailer
	logger := utils.InitLogger(utils.LoggerConfig{File: cfg.LogFile, EnableColors: true})
	mailer := utils.NewMailer(cfg, logger)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, logger, mailer)

	// Daily check-in reminders
	if cfg.EnableReminders {
		scheduler := jobs.NewReminderJob(db, logger).Start()
		defer scheduler.Stop()
	}

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
