package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	deliveryHttp "chain-support/internal/adapter/delivery/http"
	handlerHttp "chain-support/internal/adapter/handler/http"
	"chain-support/internal/adapter/rpc"
	"chain-support/internal/adapter/storage/file"
	"chain-support/internal/adapter/storage/memory"
	"chain-support/internal/adapter/storage/remoteconfig"
	"chain-support/internal/application"
	"chain-support/internal/config"
	domainRepo "chain-support/internal/domain/repository"
	"chain-support/internal/logger"
)

func main() {
	// --- Configuration ---
	cfgPath := "configs"
	if p := os.Getenv("CHAIN_SUPPORT_CONFIG_DIR"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	// --- Logger ---
	appLogger, err := logger.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Logger initialized", zap.Any("config", cfg.Logger))

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection (Manual) ---
	appLogger.Info("Initializing dependencies...")

	// Flag sources, merged in order: the local file first, the remote document wins.
	var flagSources []domainRepo.FlagRepository
	if cfg.Flags.FilePath != "" {
		flagSources = append(flagSources, file.NewRepository(cfg.Flags.FilePath, appLogger))
	}
	if cfg.Flags.RemoteURL != "" {
		flagSources = append(flagSources, remoteconfig.NewRepository(cfg.Flags, appLogger))
	}
	if len(flagSources) == 0 {
		appLogger.Warn("No feature-flag sources configured, static support tables only")
	}

	cacheRepo := memory.NewCacheRepository(cfg.Cache, appLogger)
	detector := rpc.NewDetector(cfg.RPC, appLogger)

	chainService := application.NewChainService(rootCtx, flagSources, cacheRepo, detector, appLogger, *cfg)
	if len(flagSources) > 0 {
		if err := chainService.RefreshFlags(rootCtx); err != nil {
			appLogger.Warn("Initial flag refresh failed, starting with static tables", zap.Error(err))
		}
	}

	chainHandler := handlerHttp.NewChainHandler(chainService, appLogger)

	// --- HTTP Router & Server ---
	appLogger.Info("Setting up HTTP router...")
	r := router.New()
	deliveryHttp.RegisterRoutes(r, chainHandler, appLogger)

	server := &fasthttp.Server{
		Handler: deliveryHttp.LoggingMiddleware(r.Handler, appLogger),
		Name:    cfg.App.Name,
	}
	serverAddr := ":" + cfg.Server.Port

	g, gCtx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		appLogger.Info("Starting HTTP server", zap.String("address", serverAddr))
		return server.ListenAndServe(serverAddr)
	})
	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Info("Shutting down HTTP server", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Fatal("Server stopped with error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
