package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"github.com/BarushevEA/fifo_ttl_cache/internal/httpapi"
	"github.com/BarushevEA/fifo_ttl_cache/pkg"
	"github.com/BarushevEA/fifo_ttl_cache/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	maxSize := flag.Int("max-size", -1, "maximum number of entries, negative for unbounded")
	ttl := flag.Duration("ttl", 0, "entry lifetime, 0 disables expiration")
	sweep := flag.Duration("sweep", types.DefaultSweepInterval, "background sweep interval")
	debug := flag.Bool("debug", false, "development logging and gin debug mode")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := types.Config{TTL: *ttl, SweepInterval: *sweep}
	if *maxSize >= 0 {
		cfg = cfg.WithMaxSize(*maxSize)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, logger, *addr, cfg, *debug); err != nil {
		logger.Error("cache server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serve(ctx context.Context, logger *zap.Logger, addr string, cfg types.Config, debug bool) error {
	cache, err := pkg.NewCacheFromConfig[string, json.RawMessage](ctx, cfg, pkg.WithLogger(logger))
	if err != nil {
		return err
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(cache, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("cache server listening",
			zap.String("addr", addr),
			zap.Duration("ttl", cfg.TTL),
			zap.Duration("sweep", cfg.SweepInterval),
		)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = server.Shutdown(shutdownCtx)
	}
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	return errors.Join(err, cache.Close())
}
