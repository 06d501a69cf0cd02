package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"draftworx_orchestrator/internal/config"
	"draftworx_orchestrator/internal/dispatch"
	"draftworx_orchestrator/internal/draftworx"
	"draftworx_orchestrator/internal/handlers"
	"draftworx_orchestrator/internal/logger"
	"draftworx_orchestrator/internal/server"
	"draftworx_orchestrator/internal/session"
	"draftworx_orchestrator/internal/telemetry"
)

func main() {
	// Load environment variables from .env when present
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLog := logger.Get()

	ctx := context.Background()

	var store session.Store
	if cfg.Redis.URL != "" {
		redisStore, err := session.NewRedisStore(ctx, cfg.Redis.URL, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		if err != nil {
			appLog.Fatal().Err(err).Msg("failed to connect session store to redis")
		}
		defer redisStore.Close()
		store = redisStore
		appLog.Info().Str("backend", "redis").Msg("session store ready")
	} else {
		store = session.NewMemoryStore()
		appLog.Info().Str("backend", "memory").Msg("session store ready")
	}

	tel := telemetry.NewLog(*appLog)
	api := draftworx.NewClient(draftworx.Options{
		BaseURL: cfg.Draftworx.BaseURL,
		APIKey:  cfg.Draftworx.APIKey,
	})

	dispatcher := dispatch.New(store, *appLog)
	for _, h := range handlers.All(store, tel, api) {
		dispatcher.Register(h)
	}

	srv := server.New(dispatcher, tel, *appLog)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	appLog.Info().
		Str("addr", addr).
		Str("draftworx_base_url", cfg.Draftworx.BaseURL).
		Msg("draftworx orchestrator listening")

	if err := srv.Router().Run(addr); err != nil {
		appLog.Fatal().Err(err).Msg("server stopped")
	}
}
