package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice/internal/config"
	"github.com/spec-kit/backoffice/internal/credstore"
)

// OpenStore builds the credential store selected by the client configuration.
// The returned close function releases backend connections.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (credstore.Store, func(), error) {
	noop := func() {}
	switch cfg.Client.Store {
	case config.StoreMemory:
		logger.Warn("memory credential store selected; sessions end with the process")
		return credstore.NewMemoryStore(), noop, nil

	case config.StoreRedis:
		if cfg.Redis.Addr == "" {
			return nil, noop, fmt.Errorf("redis credential store requires REDIS_ADDR")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store, err := credstore.OpenRedisStore(ctx, client, cfg.Client.RedisPrefix, cfg.Client.StorePassphrase, credstore.DefaultKDFParams)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return store, func() { _ = client.Close() }, nil

	default:
		store, err := credstore.NewFileStore(cfg.Client.StorePath, cfg.Client.StorePassphrase, credstore.WithLogger(logger))
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	}
}
