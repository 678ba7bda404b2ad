package handler

import (
	"log"
	"net/http"

	"github.com/arnavshah/restbook-api-go/pkg/auth"
	"github.com/arnavshah/restbook-api-go/pkg/config"
	"github.com/arnavshah/restbook-api-go/pkg/database"
	"github.com/arnavshah/restbook-api-go/pkg/handlers"
	"github.com/arnavshah/restbook-api-go/pkg/logging"
	"github.com/gin-gonic/gin"
)

var r *gin.Engine

func init() {
	// .env is only present with vercel dev
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	_ = auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logger)

	gin.SetMode(gin.ReleaseMode)
	r = handlers.NewEngine(&handlers.Handler{
		DB:     db,
		Store:  database.NewStore(db, logger),
		Auth:   auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Logger: logger,
	})
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
