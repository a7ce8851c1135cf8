package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/quantrisk/engine/internal/backend"
	"github.com/quantrisk/engine/internal/config"
	"github.com/quantrisk/engine/internal/data"
	"github.com/quantrisk/engine/internal/server"
	"github.com/quantrisk/engine/internal/ws"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Setup logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	// Load config
	cfg, err := config.LoadServerConfig()
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return 1
	}

	logger.Info("configuration loaded",
		zap.String("port", cfg.Port),
		zap.Int("ratePerSecond", cfg.RatePerSecond),
		zap.Int("rateBurst", cfg.RateBurst),
		zap.Int("defaultBinomialSteps", cfg.DefaultBinomialSteps),
		zap.Bool("wsEnabled", cfg.WSEnabled),
		zap.Duration("wsStreamInterval", cfg.WSStreamInterval),
		zap.Bool("backendAvailable", backend.Default().Available()),
	)

	// In-memory state
	market := data.NewMarketStore()
	registry := data.NewRegistry()

	// Create server
	srv := server.NewServer(market, registry, cfg, logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WebSocket components (optional)
	var wsHandler http.HandlerFunc

	if cfg.WSEnabled {
		encoder, err := ws.NewEncoder()
		if err != nil {
			logger.Error("failed to create ws encoder", zap.Error(err))
			return 1
		}

		hub := ws.NewHub(logger)
		go hub.Run(ctx)

		streamer := ws.NewStreamer(hub, market, registry, encoder, cfg.WSStreamInterval, logger)
		go streamer.Run(ctx)

		wsHandler = hub.HandleWS(encoder)

		logger.Info("WebSocket enabled",
			zap.Duration("streamInterval", cfg.WSStreamInterval),
		)
	}

	// Create router
	router := server.NewRouter(srv, wsHandler, logger)

	// Setup HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Cancel context to stop WebSocket components
	cancel()

	// Graceful HTTP server shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return 1
	}

	logger.Info("server stopped")
	return 0
}
