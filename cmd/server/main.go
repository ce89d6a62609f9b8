package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/boxento/boxento-server/internal/config"
	"github.com/boxento/boxento-server/internal/database"
	"github.com/boxento/boxento-server/internal/routes"
	"github.com/boxento/boxento-server/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	if err := database.SeedDemoUser(db, cfg, logger); err != nil {
		logger.Fatal("demo seed failed", zap.Error(err))
	}

	hub := ws.NewDashboardHub(logger)
	go hub.Run()

	r := gin.Default()
	routes.Register(r, db, cfg, logger, hub)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}
