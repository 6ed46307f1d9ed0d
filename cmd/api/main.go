package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mohammadpnp/account-import/internal/bootstrap"
	"github.com/mohammadpnp/account-import/internal/config"
	"github.com/mohammadpnp/account-import/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configFile := flag.String("config", "", "path to a config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build application", zap.Error(err))
	}
	defer container.Close()

	server := bootstrap.NewHTTPServer(container)
	addr := ":" + strconv.Itoa(cfg.HTTP.Port)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening",
			zap.String("addr", addr),
			zap.String("identity_backend", cfg.Identity.Backend),
			zap.Bool("import_enabled", cfg.Import.Enabled),
		)
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped")
}
