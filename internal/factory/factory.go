package factory

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/quizden/triviaroom-go/internal/connection"
	"github.com/quizden/triviaroom-go/internal/coordapi"
	"github.com/quizden/triviaroom-go/internal/dependencies/clock"
	"github.com/quizden/triviaroom-go/internal/dependencies/random"
	"github.com/quizden/triviaroom-go/internal/engine"
	"github.com/quizden/triviaroom-go/internal/model"
	"github.com/quizden/triviaroom-go/internal/opentdb"
	"github.com/quizden/triviaroom-go/internal/storage"
	"github.com/quizden/triviaroom-go/internal/storage/memory"
	redisstorage "github.com/quizden/triviaroom-go/internal/storage/redis"
	"github.com/quizden/triviaroom-go/internal/store"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Local persistence
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Core components
	Store       *store.Store
	Connection  *connection.Manager
	Coordinator *coordapi.Client
	Trivia      *opentdb.Client

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// ServerURL is the coordinator's HTTP base URL
	ServerURL string
	// SocketURL is the coordinator's WebSocket endpoint; derived from
	// ServerURL when empty
	SocketURL string
	// TriviaURL overrides the Open Trivia DB endpoint (tests)
	TriviaURL string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the local persistence backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Connection overrides the default connection settings (optional)
	Connection *connection.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if cfg.ServerURL == "" {
		return nil, errors.New("ServerURL is required")
	}

	// Create local storage based on type
	var local storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		local = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		local = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	connCfg := connection.DefaultConfig(socketURL(cfg))
	if cfg.Connection != nil {
		connCfg = *cfg.Connection
	}

	clk := clock.New()
	rnd := random.New()

	return &App{
		Storage:     local,
		Clock:       clk,
		Random:      rnd,
		Store:       store.New(logger),
		Connection:  connection.New(connCfg, logger),
		Coordinator: coordapi.NewClient(cfg.ServerURL),
		Trivia:      opentdb.NewClient(cfg.TriviaURL, rnd),
		Logger:      logger,
	}, nil
}

// NewEngine creates a synchronization engine bound to the app's components
// for the given persisted session
func (a *App) NewEngine(session model.Session) (*engine.Engine, error) {
	return engine.New(engine.DefaultConfig(session), a.Connection, a.Store, a.Clock, a.Logger)
}

func socketURL(cfg Config) string {
	if cfg.SocketURL != "" {
		return cfg.SocketURL
	}
	ws := strings.Replace(cfg.ServerURL, "http", "ws", 1)
	return strings.TrimSuffix(ws, "/") + "/ws"
}
