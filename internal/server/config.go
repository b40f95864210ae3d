package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type AppConfig struct {
	Port        int
	Store       string
	DatabaseURL string
	RedisURL    string
}

// LoadConfig reads configuration from the environment, with defaults
// suitable for local development. An .env file, if present, is loaded
// by the godotenv autoload import in server.go.
func LoadConfig() (AppConfig, error) {
	cfg := AppConfig{
		Port:  8080,
		Store: StoreMemory,
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return AppConfig{}, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := strings.TrimSpace(os.Getenv("STORE")); v != "" {
		cfg.Store = strings.ToLower(v)
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	switch cfg.Store {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return AppConfig{}, fmt.Errorf("STORE=postgres requires DATABASE_URL")
		}
	case StoreRedis:
		if cfg.RedisURL == "" {
			return AppConfig{}, fmt.Errorf("STORE=redis requires REDIS_URL")
		}
	default:
		return AppConfig{}, fmt.Errorf("unknown STORE %q", cfg.Store)
	}

	return cfg, nil
}
