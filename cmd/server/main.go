package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/helpinghand/internal/auth"
	"github.com/helpinghand/internal/config"
	"github.com/helpinghand/internal/db"
	"github.com/helpinghand/internal/handler"
	"github.com/helpinghand/internal/router"
	"github.com/helpinghand/internal/storage"
)

func main() {
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	store, err := storage.NewMinIOStore(cfg.ObjectStore)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect object storage")
	}

	tokens := auth.NewManager(cfg.JWTSecret, 24*time.Hour)
	api := handler.NewAPI(db.DB, store, tokens, cfg.ExternalAssetHosts)

	r := router.SetupRouter(api)
	log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to run server")
	}
}
