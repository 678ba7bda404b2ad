package main

import (
	"log"

	"github.com/arnavshah/restbook-api-go/pkg/auth"
	"github.com/arnavshah/restbook-api-go/pkg/config"
	"github.com/arnavshah/restbook-api-go/pkg/database"
	"github.com/arnavshah/restbook-api-go/pkg/handlers"
	"github.com/arnavshah/restbook-api-go/pkg/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		logger.Fatal("could not open database", zap.Error(err))
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		logger.Fatal("could not create admin user", zap.Error(err))
	}
	if cfg.JWTSecret == "" || cfg.APIMasterSecret == "" {
		logger.Warn("JWT_SECRET or API_MASTER_SECRET is empty; tokens and keys are not secure")
	}

	h := &handlers.Handler{
		DB:     db,
		Store:  database.NewStore(db, logger),
		Auth:   auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Logger: logger,
	}
	r := handlers.NewEngine(h)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
