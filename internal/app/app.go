// Package app assembles the store, the websocket hub and the services from
// the configuration. It is shared by the API server and the CLI.
package app

import (
	"fmt"

	"hilanderia-pos/internal/config"
	"hilanderia-pos/internal/export"
	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository"
	"hilanderia-pos/internal/repository/memory"
	"hilanderia-pos/internal/service"
	"hilanderia-pos/internal/ws"
	"hilanderia-pos/pkg/database"
	"hilanderia-pos/pkg/jwt"

	"go.uber.org/zap"
)

type App struct {
	Config   *config.Config
	Store    repository.Store
	Hub      *ws.Hub
	Services *service.Services
	close    func() error
}

// Models lists every table the service owns
var Models = []interface{}{
	&model.Customer{},
	&model.Product{},
	&model.Sale{},
	&model.SaleLineItem{},
	&model.Event{},
}

// OpenStore returns the in-memory store or a migrated Postgres store.
func OpenStore(cfg *config.Config, log *zap.Logger) (repository.Store, func() error, error) {
	if cfg.StoreMode == config.StoreModeMemory {
		log.Warn("running on the in-memory store, data is lost on exit")
		return memory.New(), func() error { return nil }, nil
	}

	db, err := database.ConnectDB(cfg.Database.DSN(), cfg.LogLevel == "debug")
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db, Models...); err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database handle: %w", err)
	}
	log.Info("database connected", zap.String("mode", cfg.StoreMode))
	return repository.NewStore(db), sqlDB.Close, nil
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	store, closeFn, err := OpenStore(cfg, log)
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(log.Named("ws"))
	company := export.Company{Name: cfg.Company.Name, RUC: cfg.Company.RUC, Address: cfg.Company.Address}
	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return &App{
		Config:   cfg,
		Store:    store,
		Hub:      hub,
		Services: service.NewServices(store, tokens, hub, company, log),
		close:    closeFn,
	}, nil
}

func (a *App) Close() error {
	return a.close()
}

// NewLogger builds the production zap logger, at debug level when asked.
func NewLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	return cfg.Build()
}
