// Package redis implements the store.Store interface on top of a Redis
// server using go-redis. This is the production backend: WATCH/MULTI/EXEC
// provides the optimistic-concurrency primitive, SCAN the cursor paging,
// and native key TTLs the token expiry.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prn-tf/medtrack/internal/store"
)

// Config holds Redis connection settings.
type Config struct {
	Addr        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

// Store implements store.Store backed by Redis.
type Store struct {
	client *redis.Client
}

// Open connects to Redis and verifies the connection with a ping.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{client: client}, nil
}

// New wraps an existing Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

// Get retrieves the value for key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return "", mapErr(err)
	}
	return val, nil
}

// Set stores a value. A ttl of 0 means the value does not expire.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// SetNX stores a value only if the key does not already exist.
func (s *Store) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}

// GetDel atomically retrieves and deletes the value for key.
func (s *Store) GetDel(ctx context.Context, key string) (string, error) {
	val, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		return "", mapErr(err)
	}
	return val, nil
}

// Delete removes the given keys and returns how many existed.
func (s *Store) Delete(ctx context.Context, keys ...string) (int64, error) {
	return s.client.Del(ctx, keys...).Result()
}

// Scan iterates keys matching the glob pattern, one page per call.
func (s *Store) Scan(ctx context.Context, cursor uint64, match string, count int64) ([]string, uint64, error) {
	return s.client.Scan(ctx, cursor, match, count).Result()
}

// Watch runs fn inside a WATCH/MULTI/EXEC transaction over the given keys.
func (s *Store) Watch(ctx context.Context, fn func(store.Tx) error, keys ...string) error {
	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		return fn(&tx{rtx: rtx})
	}, keys...)
	return mapErr(err)
}

// tx adapts *redis.Tx to store.Tx.
type tx struct {
	rtx *redis.Tx
}

func (t *tx) Get(ctx context.Context, key string) (string, error) {
	val, err := t.rtx.Get(ctx, key).Result()
	if err != nil {
		return "", mapErr(err)
	}
	return val, nil
}

func (t *tx) Exec(ctx context.Context, fn func(store.Pipe) error) error {
	_, err := t.rtx.TxPipelined(ctx, func(p redis.Pipeliner) error {
		return fn(&pipe{ctx: ctx, p: p})
	})
	return mapErr(err)
}

// pipe adapts redis.Pipeliner to store.Pipe. Commands queued on a
// transactional pipeline are not sent until EXEC, so the per-command
// results are discarded here.
type pipe struct {
	ctx context.Context
	p   redis.Pipeliner
}

func (p *pipe) Set(key, value string, ttl time.Duration) {
	p.p.Set(p.ctx, key, value, ttl)
}

func (p *pipe) Delete(keys ...string) {
	p.p.Del(p.ctx, keys...)
}

// mapErr translates go-redis sentinel errors to store errors.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return store.ErrKeyNotFound
	case errors.Is(err, redis.TxFailedErr):
		return store.ErrTxConflict
	default:
		return err
	}
}

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)
