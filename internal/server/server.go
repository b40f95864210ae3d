package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"yahtzee-server/internal/dice"
)

type Server struct {
	coordinator *Coordinator
	hub         *Hub
	storeKind   string
	logger      *zap.Logger
	closer      io.Closer
}

// NewServer wires config, store, broadcaster and coordinator together
// and returns the ready-to-run http.Server alongside the Server for
// custom shutdown.
func NewServer(logger *zap.Logger) (*Server, *http.Server, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	store, closer, err := newStore(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	hub := NewHub(logger)
	s := &Server{
		coordinator: NewCoordinator(store, hub, dice.StandardRandomizer, logger),
		hub:         hub,
		storeKind:   cfg.Store,
		logger:      logger,
		closer:      closer,
	}

	logger.Info("server configured",
		zap.Int("port", cfg.Port),
		zap.String("store", cfg.Store))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, httpServer, nil
}

func newStore(ctx context.Context, cfg AppConfig) (Store, io.Closer, error) {
	switch cfg.Store {
	case StoreMemory:
		return NewMemoryStore(), nil, nil

	case StorePostgres:
		store, err := NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case StoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return NewRedisStore(client), client, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE %q", cfg.Store)
}

// Shutdown closes broadcast subscribers and the store connection.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Shutdown(ctx)
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
