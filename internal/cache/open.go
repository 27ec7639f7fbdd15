package cache

import (
	"context"
	"fmt"

	"homecare_client/internal/config"
	"homecare_client/internal/database"
	"homecare_client/pkg/utils"

	"github.com/go-redis/redis/v8"
)

// Open builds the Store selected by cfg.Cache.Driver. The returned close
// function releases the underlying connection and is never nil.
func Open(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Cache.Driver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("connecting to redis %s: %w", cfg.Redis.Addr, err)
		}
		utils.LogInfo("Snapshot cache uses redis", map[string]interface{}{"addr": cfg.Redis.Addr})
		return NewRedisStore(client), client.Close, nil

	case "postgres":
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		if err := database.ApplySchema(ctx, db, cfg.Database.SchemaPath); err != nil {
			db.Close()
			return nil, noop, err
		}
		store := NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		utils.LogInfo("Snapshot cache uses postgres")
		return store, db.Close, nil

	default:
		utils.LogInfo("Snapshot cache uses process memory")
		return NewMemoryStore(), noop, nil
	}
}
