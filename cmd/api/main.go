package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"yahtzee-server/internal/server"
)

func gracefulShutdown(customServer *server.Server, httpServer *http.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutdown signal received, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := customServer.Shutdown(ctx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("http server forced to shutdown", zap.Error(err))
	}

	done <- true
}

func main() {
	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	customServer, httpServer, err := server.NewServer(logger)
	if err != nil {
		logger.Fatal("failed to configure server", zap.Error(err))
	}

	done := make(chan bool, 1)
	go gracefulShutdown(customServer, httpServer, logger, done)

	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Fatal("http server error", zap.Error(err))
	}

	<-done
	logger.Info("graceful shutdown complete")
}
