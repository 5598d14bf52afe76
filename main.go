package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"finforge/internal/config"
	"finforge/internal/dispatcher"
	"finforge/internal/engine"
	"finforge/internal/ledger"
	"finforge/internal/logger"
	"finforge/internal/registry"
	"finforge/internal/server"
	"finforge/internal/session"
)

func main() {
	// Load environment variables from .env file, if present
	_ = godotenv.Load()

	rt := config.LoadRuntime()

	if err := logger.Init(rt.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	games, err := config.LoadGames(rt.GamesFile)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load game registry")
	}

	led := ledger.New()

	reg, err := registry.Bootstrap(games, rt.DataDir, led)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to bootstrap games")
	}

	ctx := context.Background()

	var sessions session.Tracker
	if rt.RedisURL != "" {
		sessions, err = session.NewRedisTracker(ctx, rt.RedisURL, session.DefaultTTL)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to connect session tracker")
		}
	} else {
		sessions = session.NewMemoryTracker(session.DefaultTTL)
		logger.Info().Msg("REDIS_URL not set, tracking sessions in memory")
	}
	defer sessions.Close()

	disp := dispatcher.New(reg, engine.New(), led, sessions)
	handler := server.NewHandler(disp, reg, led, sessions)
	router := server.NewRouter(handler)

	logger.Info().
		Str("addr", rt.Addr).
		Strs("games", reg.IDs()).
		Msg("FinForge server running")

	if err := router.Run(rt.Addr); err != nil {
		logger.Logger.Fatal().Err(err).Msg("server exited")
	}
}
