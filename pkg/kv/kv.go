// Package kv is the client's durable key-value store: the Go counterpart of
// the browser's localStorage. Values are opaque strings; callers decide the
// encoding (JSON for records, raw for the token).
//
// Four drivers are available, chosen by KV_DRIVER:
//   - "memory" process-local map, nothing survives a restart (tests)
//   - "file"   one file per key under KV_PATH (default)
//   - "redis"  shared Redis instance at REDIS_ADDR
//   - "sql"    kv_entries table through GORM (DB_DRIVER / DATABASE_DSN)
//
// Quick start:
//
//	store, err := kv.Open(ctx)
//	defer store.Close()
//	store = kv.WithPrefix(store, config.KVPrefix())
//	_ = store.Set(ctx, "token", tok)
//	tok, err := store.Get(ctx, "token") // kv.ErrNotFound when absent
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/foodexplorer/config"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is implemented by every driver.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the driver's resources.
	Close() error
}

// Open builds the driver selected by configuration.
func Open(ctx context.Context) (Store, error) {
	switch driver := config.KVDriver(); driver {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(config.KVPath())
	case "redis":
		return NewRedis(ctx, config.RedisAddr(), config.RedisPassword())
	case "sql":
		return NewSQL(config.DatabaseDriver(), config.DatabaseDSN())
	default:
		return nil, fmt.Errorf("kv: unsupported KV_DRIVER %q (supported: memory, file, redis, sql)", driver)
	}
}

// ─── Prefix ───────────────────────────────────────────────────────────────────

type prefixed struct {
	Store
	prefix string
}

// WithPrefix namespaces every key of s with prefix.
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixed{Store: s, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.Store.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key, value string) error {
	return p.Store.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.Store.Delete(ctx, p.prefix+key)
}
