package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"registration-tracker/config"
	"registration-tracker/handlers"
	"registration-tracker/models"
	"registration-tracker/services"
	"registration-tracker/system"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 0. Initialize Logger
	if err := system.InitLogger(cfg.Log.Dir); err != nil {
		log.Printf("Warning: Could not initialize file logger: %v", err)
	}
	defer system.Close()

	system.Info("Registration tracker starting...")

	// 1. Setup Database
	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	if err != nil {
		system.Error("Failed to connect to database: %v", err)
		log.Fatal("Failed to connect to database:", err)
	}
	system.Info("Database connected: %s", cfg.Database.Path)

	// WAL mode avoids "database is locked" errors under concurrent writes
	if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
		system.Warn("Failed to enable WAL mode: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Country{},
		&models.Company{},
		&models.Person{},
		&models.User{},
	); err != nil {
		system.Error("Database migration failed: %v", err)
		log.Fatalf("CRITICAL: Database migration failed. Application cannot start: %v", err)
	}
	system.Info("Database migration completed successfully")

	// 2. Optional redis cache for dashboard stats
	var cache *services.Cache
	if cfg.Redis.Address != "" {
		cache, err = services.NewCache(cfg.Redis.Address, 5*time.Minute)
		if err != nil {
			system.Warn("Redis cache disabled: %v", err)
		} else {
			system.Info("Redis cache connected: %s", cfg.Redis.Address)
			defer cache.Close()
		}
	}

	// 3. Setup Handlers
	handlers.ConfigureAuth(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	h := handlers.NewHandler(db, cache)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: false,
	})

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     os.Stdout,
	}))
	app.Use(cors.New())
	app.Use(handlers.MetricsMiddleware())

	h.RegisterRoutes(app)

	handlers.AddEvent("success", "Registration tracker backend started")

	// Graceful Shutdown Handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		system.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	system.Info("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}
