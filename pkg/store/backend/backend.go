// Package backend opens the board store selected by the configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sprintboard/pkg/config"
	"github.com/matzehuels/sprintboard/pkg/store"
	"github.com/matzehuels/sprintboard/pkg/store/file"
	"github.com/matzehuels/sprintboard/pkg/store/memory"
	"github.com/matzehuels/sprintboard/pkg/store/mongo"
	"github.com/matzehuels/sprintboard/pkg/store/redis"
	"github.com/matzehuels/sprintboard/pkg/store/sqlite"
)

// Open connects to the configured backend. The returned store retries
// transient failures and reports to the observability store hooks.
func Open(ctx context.Context, cfg config.Store, logger *log.Logger) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch cfg.Backend {
	case config.BackendFile, "":
		s, err = file.New(file.StoreConfig{Dir: cfg.Dir, Logger: logger})
	case config.BackendMemory:
		s = memory.New(memory.StoreConfig{Logger: logger})
	case config.BackendSQLite:
		s, err = sqlite.New(ctx, sqlite.StoreConfig{DBPath: cfg.SQLite.Path, Logger: logger})
	case config.BackendRedis:
		s, err = redis.New(ctx, redis.StoreConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			Logger:   logger,
		})
	case config.BackendMongo:
		s, err = mongo.New(ctx, mongo.StoreConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
			Timeout:    cfg.Mongo.Timeout,
			Logger:     logger,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	if logger != nil {
		logger.Debug("store opened", "backend", cfg.Backend)
	}
	return store.Instrument(s, cfg.Backend), nil
}
