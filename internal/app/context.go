package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/cache"
	"github.com/coder47007/Campus-Match-App-sub001/internal/dispatch"
	"github.com/coder47007/Campus-Match-App-sub001/internal/presence"
)

// AppContext holds shared dependencies (DB, Redis, presence, dispatcher,
// logger).
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Presence   presence.Registry
	Dispatcher *dispatch.Dispatcher
	Logger     *slog.Logger
}

// New creates a new AppContext.
func New(db *gorm.DB, rdb *cache.RedisCache, registry presence.Registry, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Presence:   registry,
		Dispatcher: dispatch.New(registry, logger),
		Logger:     logger,
	}
}
