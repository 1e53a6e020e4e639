package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/adapters/repository/cache"
	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/adapters/repository/postgres"
	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/core/kpi"
	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/platform/config"
	pg "github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/platform/db/postgres"
	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/platform/logging"
	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/platform/server"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	dbPool, err := pg.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	var kpiRepo kpi.Repository = postgres.NewUserKPIRepository(dbPool)
	if cfg.Cache.Enabled() {
		kpiRepo = cache.NewUserKPIRepository(kpiRepo, cfg.Cache.Size, cfg.Cache.TTL)
		logger.Info("kpi cache enabled", zap.Int("size", cfg.Cache.Size), zap.Duration("ttl", cfg.Cache.TTL))
	}

	kpiSvc := kpi.NewService(
		kpiRepo,
		postgres.NewBadgeEventRepository(dbPool),
		nil,
		pg.NewTransactionManager(dbPool, logger),
		logger,
	)
	grpcServer := server.New(cfg.Server.ListenAddr, kpiSvc, logger)

	logger.Info("gRPC server listening", zap.String("addr", cfg.Server.ListenAddr))

	if err := grpcServer.Run(ctx); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("gRPC server stopped")
}
