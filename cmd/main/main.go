package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"restock-service/internal/config"
	"restock-service/internal/memory/boltstore"
	serverhttp "restock-service/server/http"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	if err := os.MkdirAll(filepath.Dir(cfg.MemoryDBPath), 0o755); err != nil {
		logger.Fatal().Err(err).Str("path", cfg.MemoryDBPath).Msg("memory dir")
	}
	mem, err := boltstore.Open(cfg.MemoryDBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.MemoryDBPath).Msg("open match memory")
	}
	defer mem.Close()

	r := serverhttp.NewRouter(cfg, logger, mem)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
