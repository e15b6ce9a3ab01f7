package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/doughlab/cookieclicker/internal/dependencies/clock"
	"github.com/doughlab/cookieclicker/internal/realtime"
	"github.com/doughlab/cookieclicker/internal/services/auth"
	"github.com/doughlab/cookieclicker/internal/storage"
	"github.com/doughlab/cookieclicker/internal/storage/memory"
	postgresstorage "github.com/doughlab/cookieclicker/internal/storage/postgres"
	redisstorage "github.com/doughlab/cookieclicker/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.PlayerStore

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService *auth.Service

	// Realtime components
	Hub             *realtime.Hub
	Registry        *realtime.Registry
	Limiter         *realtime.Limiter
	Broadcaster     *realtime.Broadcaster
	RealtimeHandler *realtime.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds Postgres connection settings (required if StorageType is "postgres")
	PostgresConfig *postgresstorage.Config
	// RealtimeConfig tunes admission, broadcast throttling and takeover
	// If zero value, defaults to realtime.DefaultConfig()
	RealtimeConfig realtime.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()

	var store storage.PlayerStore
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := postgresstorage.New(*cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		if err := pgStore.InitSchema(context.Background()); err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	rtCfg := cfg.RealtimeConfig
	if rtCfg.MaxConnectionsPerAddr == 0 {
		rtCfg = realtime.DefaultConfig()
	}

	return newWithDependencies(store, clk, rtCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.PlayerStore, clk clock.Clock, rtCfg realtime.Config, logger *slog.Logger) *App {
	authService := auth.New(store, clk, logger)

	hub := realtime.NewHub(logger)
	registry := realtime.NewRegistry(rtCfg.TakeoverPolicy)
	limiter := realtime.NewLimiter(rtCfg.MaxConnectionsPerAddr)
	broadcaster := realtime.NewBroadcaster(store, registry, hub, clk, rtCfg.BroadcastInterval, logger)
	rtHandler := realtime.NewHandler(limiter, hub, registry, broadcaster, authService, store, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		AuthService:     authService,
		Hub:             hub,
		Registry:        registry,
		Limiter:         limiter,
		Broadcaster:     broadcaster,
		RealtimeHandler: rtHandler,
	}
}

// Start launches the background components. It returns immediately; the hub
// runs until Close is called.
func (a *App) Start() {
	go a.Hub.Run()
}

// Close stops background components and releases storage connections
func (a *App) Close() error {
	a.Broadcaster.Close()
	a.Hub.Close()

	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
