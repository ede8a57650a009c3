package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/coursejobs/internal/data/db"
	"github.com/yungbote/coursejobs/internal/modules/media"
	"github.com/yungbote/coursejobs/internal/observability"
	"github.com/yungbote/coursejobs/internal/platform/azureblob"
	"github.com/yungbote/coursejobs/internal/platform/gcp"
	"github.com/yungbote/coursejobs/internal/platform/logger"
	"github.com/yungbote/coursejobs/internal/platform/openai"
)

type Clients struct {
	Postgres *db.PostgresService
	Redis    redis.UniversalClient
	// Blobs is nil when no media backend is configured.
	Blobs media.BlobStore
	// AI is nil without an API key; generation jobs then fail at dispatch.
	AI openai.Client

	closers []func() error
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	pg, err := db.NewPostgresService(log, cfg.Postgres.connection())
	if err != nil {
		return Clients{}, fmt.Errorf("init postgres: %w", err)
	}
	c.Postgres = pg
	c.closers = append(c.closers, pg.Close)
	if cfg.Postgres.AutoMigrate {
		if err := pg.AutoMigrateAll(); err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("postgres automigrate: %w", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	c.Redis = rdb
	c.closers = append(c.closers, rdb.Close)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		c.Close()
		return Clients{}, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
	}
	log.Info("Connected to Redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)

	blobs, closeBlobs, err := openBlobStore(ctx, log, cfg.Blob)
	if err != nil {
		c.Close()
		return Clients{}, fmt.Errorf("init blob store: %w", err)
	}
	c.Blobs = blobs
	if closeBlobs != nil {
		c.closers = append(c.closers, closeBlobs)
	}

	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY not set, generation jobs are disabled")
	} else {
		ai, err := openai.NewClient(log, cfg.OpenAI, openai.WithObserver(metrics))
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		c.AI = ai
	}
	return c, nil
}

// openBlobStore returns a nil store for the "none" backend.
func openBlobStore(ctx context.Context, log *logger.Logger, cfg BlobConfig) (media.BlobStore, func() error, error) {
	switch cfg.Backend {
	case BlobBackendAzure:
		store, err := azureblob.New(log, cfg.Azure)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case BlobBackendGCS:
		bucket, err := gcp.NewMediaBucket(ctx, log, cfg.GCS)
		if err != nil {
			return nil, nil, err
		}
		return bucket, bucket.Close, nil
	default:
		log.Warn("No blob backend configured, course copies will keep source media URLs")
		return nil, nil, nil
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
	c.closers = nil
}
