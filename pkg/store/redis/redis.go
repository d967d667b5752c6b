// Package redis stores boards in Redis so several API instances can share them.
//
// Each board is a JSON string under "<prefix>board:<id>"; the set
// "<prefix>boards" indexes the ids for listing.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/sprintboard/pkg/store"
)

// DefaultPrefix namespaces sprintboard keys.
const DefaultPrefix = "sprintboard:"

// StoreConfig is the configuration for the Redis store.
type StoreConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Logger   *log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.Addr == "" {
		return fmt.Errorf("redis address is required")
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	c.Logger = c.Logger.With("svc", "store.redis")
	return nil
}

// Store is a Redis implementation of store.Store.
type Store struct {
	client *redis.Client
	prefix string
	logger *log.Logger
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	cfg.Logger.Debug("connected", "addr", cfg.Addr, "db", cfg.DB)
	return NewWithClient(client, cfg.Prefix, cfg.Logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string, logger *log.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{client: client, prefix: prefix, logger: logger}
}

func (s *Store) key(id string) string { return s.prefix + "board:" + id }
func (s *Store) indexKey() string     { return s.prefix + "boards" }

// Get retrieves a board by id.
func (s *Store) Get(ctx context.Context, id string) (*store.Document, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("board %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, classify(fmt.Errorf("get board %s: %w", id, err))
	}
	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode board %s: %w", id, err)
	}
	return &doc, nil
}

// Put writes the board and indexes its id in one transaction.
func (s *Store) Put(ctx context.Context, doc *store.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode board %s: %w", doc.ID, err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(doc.ID), data, 0)
		pipe.SAdd(ctx, s.indexKey(), doc.ID)
		return nil
	})
	if err != nil {
		return classify(fmt.Errorf("put board %s: %w", doc.ID, err))
	}
	s.logger.Debug("stored board", "id", doc.ID, "bytes", len(data))
	return nil
}

// Delete removes a board and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.key(id))
		pipe.SRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return classify(fmt.Errorf("delete board %s: %w", id, err))
	}
	if del.Val() == 0 {
		return fmt.Errorf("board %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// List loads every indexed board. Ids whose key has vanished are skipped.
func (s *Store) List(ctx context.Context) ([]store.Summary, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, classify(fmt.Errorf("list boards: %w", err))
	}
	if len(ids) == 0 {
		return nil, nil
	}
	slices.Sort(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, classify(fmt.Errorf("load boards: %w", err))
	}

	out := make([]store.Summary, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			s.logger.Warn("index names missing board", "id", ids[i])
			continue
		}
		var doc store.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode board %s: %w", ids[i], err)
		}
		out = append(out, doc.Summary())
	}
	return out, nil
}

// Close closes the client.
func (s *Store) Close() error { return s.client.Close() }

// classify marks network failures and timeouts as retryable.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || strings.Contains(err.Error(), "connection refused") {
		return store.Retryable(err)
	}
	return err
}

var _ store.Store = (*Store)(nil)
