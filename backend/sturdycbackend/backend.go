// Package sturdycbackend adapts github.com/viccon/sturdyc as a
// cachekit.Backend, for callers who want sturdyc's sharded, stampede-aware
// in-process store instead of memstore. The Config/DefaultConfig/Validate
// shape mirrors a sturdyc service wrapper almost unchanged; only the
// wrapped client's shape and error handling differ, since this Backend
// exposes raw Get/Set rather than a GetOrFetch-style cache-aside call.
//
// sturdyc.Client's confirmed surface (New, GetOrFetch, Delete, ScanKeys) has
// no direct "set" primitive: values only enter the cache through a
// GetOrFetch fetch function. Set is therefore implemented as Delete
// followed by a GetOrFetch whose fetch function returns the new value,
// forcing repopulation even when a stale entry is already present.
package sturdycbackend

import (
	"context"
	"errors"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/cachekit/cachekit"
)

// errMiss is the sentinel fetch-function error used to signal "not present"
// back out of sturdyc.Client.GetOrFetch without it caching a fabricated
// value.
var errMiss = errors.New("sturdycbackend: miss")

// Config mirrors the construction-time parameters sturdyc.New requires.
// TTL here is a single process-wide expiry: sturdyc has no per-key TTL
// override, so a cachekit.TTLValue passed to Backend.Set is accepted for
// interface compatibility but otherwise ignored — every entry expires after
// Config.TTL regardless of what the caller asked for.
type Config struct {
	// Capacity is the maximum number of entries the cache holds. Must be
	// greater than 0.
	Capacity int

	// NumShards determines concurrency/memory tradeoff. Must be greater
	// than 0.
	NumShards int

	// TTL is the fixed expiry every entry receives, irrespective of any
	// cachekit.TTLValue passed to Set.
	TTL time.Duration

	// EvictionPercentage is the fraction of entries sturdyc evicts once
	// Capacity is reached. Must be between 1 and 100.
	EvictionPercentage int
}

// DefaultConfig returns conservative defaults suitable for a single
// process's read-through cache.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          32,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration values sturdyc.New requires to be
// positive/in-range.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &cachekit.ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &cachekit.ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &cachekit.ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &cachekit.ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// Backend is a cachekit.Backend backed by a sturdyc.Client[[]byte].
type Backend struct {
	client *sturdyc.Client[[]byte]
}

var _ cachekit.Backend = (*Backend)(nil)

// New validates cfg and constructs a Backend.
func New(cfg Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)
	return &Backend{client: client}, nil
}

func (b *Backend) Get(ctx context.Context, key cachekit.Key) ([]byte, bool, error) {
	value, err := b.client.GetOrFetch(ctx, string(key), func(ctx context.Context) ([]byte, error) {
		return nil, errMiss
	})
	if err != nil {
		if errors.Is(err, errMiss) {
			return nil, false, nil
		}
		return nil, false, &cachekit.BackendError{Op: "Get", Key: string(key), Err: err}
	}
	return value, true, nil
}

func (b *Backend) Set(ctx context.Context, key cachekit.Key, value []byte, ttl cachekit.TTLValue) error {
	b.client.Delete(string(key))
	_, err := b.client.GetOrFetch(ctx, string(key), func(ctx context.Context) ([]byte, error) {
		return value, nil
	})
	if err != nil {
		return &cachekit.BackendError{Op: "Set", Key: string(key), Err: err}
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key cachekit.Key) error {
	b.client.Delete(string(key))
	return nil
}

func (b *Backend) Exists(ctx context.Context, key cachekit.Key) (bool, error) {
	_, found, err := b.Get(ctx, key)
	return found, err
}

func (b *Backend) MGet(ctx context.Context, keys []cachekit.Key) ([]cachekit.MGetResult, error) {
	out := make([]cachekit.MGetResult, len(keys))
	for i, k := range keys {
		v, found, err := b.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		out[i] = cachekit.MGetResult{Value: v, Found: found}
	}
	return out, nil
}

func (b *Backend) MDelete(ctx context.Context, keys []cachekit.Key) error {
	for _, k := range keys {
		b.client.Delete(string(k))
	}
	return nil
}

// ClearAll scans every key sturdyc currently holds and deletes it.
func (b *Backend) ClearAll(ctx context.Context) error {
	for _, key := range b.client.ScanKeys() {
		b.client.Delete(key)
	}
	return nil
}

func (b *Backend) HealthCheck(ctx context.Context) (bool, error) {
	return true, nil
}
