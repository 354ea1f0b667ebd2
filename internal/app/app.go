package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/yungbote/seoplanner-backend/internal/data/db"
	"github.com/yungbote/seoplanner-backend/internal/http"
	"github.com/yungbote/seoplanner-backend/internal/observability"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	store        *db.PostgresService
	shutdownOtel func(context.Context) error
}

// New builds the logger from LOG_MODE and the rest from the environment.
func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	a, err := Build(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// Build opens the store and wires every layer from cfg.
func Build(log *logger.Logger, cfg Config) (*App, error) {
	store, err := db.NewPostgresService(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err := store.AutoMigrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("store automigrate: %w", err)
	}
	theDB := store.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	shutdownOtel := observability.InitOTel(context.Background(), log, cfg.Otel)

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(theDB, log, serviceset)
	server := wireServer(log, cfg, handlerset)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		store:        store,
		shutdownOtel: shutdownOtel,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Starting HTTP server", "addr", addr)
	return a.Server.Run(addr)
}

// Close stops the HTTP server and releases clients, tracing and the store.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown failed", "error", err)
		}
	}
	a.Clients.Close(ctx)
	if a.shutdownOtel != nil {
		if err := a.shutdownOtel(ctx); err != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("Store close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
