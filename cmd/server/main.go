package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	"github.com/coder47007/Campus-Match-App-sub001/internal/cache"
	"github.com/coder47007/Campus-Match-App-sub001/internal/config"
	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	"github.com/coder47007/Campus-Match-App-sub001/internal/logger"
	"github.com/coder47007/Campus-Match-App-sub001/internal/observability/metrics"
	"github.com/coder47007/Campus-Match-App-sub001/internal/presence"
	"github.com/coder47007/Campus-Match-App-sub001/internal/server"
	"github.com/coder47007/Campus-Match-App-sub001/internal/service/likes"
	"github.com/coder47007/Campus-Match-App-sub001/internal/service/messages"
	"github.com/coder47007/Campus-Match-App-sub001/internal/service/resources"
	"github.com/coder47007/Campus-Match-App-sub001/internal/service/rewind"
	"github.com/coder47007/Campus-Match-App-sub001/internal/service/swipe"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	metrics.MustRegister()

	instanceID, _ := os.Hostname()
	registry := presence.NewLocalRegistry(redisCache, instanceID)

	appCtx := app.New(database, redisCache, registry, log)

	registrars := []server.Registrar{
		swipe.NewRegistrar(appCtx),
		rewind.NewRegistrar(appCtx),
		likes.NewRegistrar(appCtx),
		messages.NewRegistrar(appCtx),
		resources.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
