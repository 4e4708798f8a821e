package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/backoffice/internal/api/http"
	"github.com/spec-kit/backoffice/internal/api/http/handlers"
	"github.com/spec-kit/backoffice/internal/auth"
	"github.com/spec-kit/backoffice/internal/config"
	"github.com/spec-kit/backoffice/internal/observability"
	"github.com/spec-kit/backoffice/internal/persistence"
	"github.com/spec-kit/backoffice/internal/repository"
	"github.com/spec-kit/backoffice/internal/worker"
)

const revocationSweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		staffRepo  repository.StaffRepository
		moduleRepo repository.ModuleRepository
	)
	if pg.Enabled() {
		staffRepo = repository.NewStaffRepository(pg.PoolHandle())
		moduleRepo = repository.NewModuleRepository(pg.PoolHandle())
	} else {
		hash, err := auth.HashPassword(cfg.Auth.SeedPassword, cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("failed to hash seed password", zap.Error(err))
		}
		logger.Warn("serving seeded in-memory staff and modules")
		staffRepo = repository.NewMemoryStaffRepository(repository.SeedStaff(hash)...)
		moduleRepo = repository.NewMemoryModuleRepository(repository.SeedModules()...)
	}

	var revocations auth.RevocationList
	if redis.Enabled() {
		revocations = auth.NewRedisRevocationList(redis.Client, "")
	} else {
		memory := auth.NewMemoryRevocationList()
		worker.StartRevocationSweeper(ctx, memory, revocationSweepInterval, logger)
		revocations = memory
	}

	app := httptransport.NewServer(httptransport.ServerDeps{
		Name:           cfg.App.Name,
		Version:        cfg.App.Version,
		Logger:         logger,
		Metrics:        observability.NewMetrics(),
		RequestTimeout: cfg.App.RequestTimeout(),
		ModulesPath:    cfg.Client.ModulesPath,
		Staff:          staffRepo,
		Modules:        moduleRepo,
		Tokens:         auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		Revocations:    revocations,
		Health: map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		},
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
