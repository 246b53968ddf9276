package main

import (
	"context"
	"fmt"

	"github.com/anonto42/cookbook/backend/internal/repositories"
	"github.com/anonto42/cookbook/backend/pkg/config"
	"github.com/anonto42/cookbook/backend/pkg/logger"
	"go.uber.org/zap"
)

// app is the process wide state shared by the commands.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *config.DB
}

func bootstrap() (*app, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := config.InitDB(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("init databases: %w", err)
	}
	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	a.db.CloseDB()
	_ = a.log.Sync()
}

// searchIndex picks MongoDB text search when a cluster is configured and the
// recipes table otherwise.
func (a *app) searchIndex(ctx context.Context) (repositories.SearchIndex, error) {
	if a.db.Mongo == nil {
		a.log.Info("Search uses the relational database")
		return repositories.NewSQLSearchIndex(a.db.SQL), nil
	}
	index := repositories.NewMongoSearchIndex(a.db.Mongo.Database(a.cfg.MongoDatabase))
	if err := index.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure search indexes: %w", err)
	}
	a.log.Info("Search uses MongoDB", zap.String("database", a.cfg.MongoDatabase))
	return index, nil
}

func (a *app) popupCache() repositories.PopupCache {
	if a.cfg.MemcacheAddr == "" {
		return repositories.NopPopupCache{}
	}
	a.log.Info("User popups cached in memcached", zap.String("addr", a.cfg.MemcacheAddr))
	return repositories.NewMemcachedPopupCache(a.cfg.MemcacheAddr)
}
