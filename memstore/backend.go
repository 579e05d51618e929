// Package memstore implements an in-process cachekit.Backend: a map with
// lazy, per-entry expiry. It is the reference backend used by this
// module's own tests and suits small single-process deployments. Built on
// the standard library (a map guarded by a mutex, entries expiring lazily
// on read) rather than a third-party cache, since that concurrent-map
// shape is exactly what a minimal reference backend calls for.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/cachekit/cachekit"
)

type entry struct {
	value    []byte
	expireAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// Backend is a concurrency-safe, in-process cachekit.Backend. The zero
// value is not usable; construct with New.
type Backend struct {
	mu   sync.RWMutex
	data map[cachekit.Key]entry
}

var _ cachekit.Backend = (*Backend)(nil)

// New constructs an empty Backend.
func New() *Backend {
	return &Backend{data: make(map[cachekit.Key]entry)}
}

func (b *Backend) Get(ctx context.Context, key cachekit.Key) ([]byte, bool, error) {
	b.mu.RLock()
	e, ok := b.data[key]
	b.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(time.Now()) {
		b.mu.Lock()
		if cur, ok := b.data[key]; ok && cur.expired(time.Now()) {
			delete(b.data, key)
		}
		b.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (b *Backend) Set(ctx context.Context, key cachekit.Key, value []byte, ttl cachekit.TTLValue) error {
	e := entry{value: value}
	if d, ok := ttl.Duration(); ok {
		e.expireAt = time.Now().Add(d)
	}

	b.mu.Lock()
	b.data[key] = e
	b.mu.Unlock()
	return nil
}

func (b *Backend) Delete(ctx context.Context, key cachekit.Key) error {
	b.mu.Lock()
	delete(b.data, key)
	b.mu.Unlock()
	return nil
}

func (b *Backend) Exists(ctx context.Context, key cachekit.Key) (bool, error) {
	_, found, err := b.Get(ctx, key)
	return found, err
}

func (b *Backend) MGet(ctx context.Context, keys []cachekit.Key) ([]cachekit.MGetResult, error) {
	out := make([]cachekit.MGetResult, len(keys))
	now := time.Now()

	b.mu.RLock()
	for i, k := range keys {
		e, ok := b.data[k]
		if ok && !e.expired(now) {
			out[i] = cachekit.MGetResult{Value: e.value, Found: true}
		}
	}
	b.mu.RUnlock()
	return out, nil
}

func (b *Backend) MDelete(ctx context.Context, keys []cachekit.Key) error {
	b.mu.Lock()
	for _, k := range keys {
		delete(b.data, k)
	}
	b.mu.Unlock()
	return nil
}

func (b *Backend) ClearAll(ctx context.Context) error {
	b.mu.Lock()
	b.data = make(map[cachekit.Key]entry)
	b.mu.Unlock()
	return nil
}

func (b *Backend) HealthCheck(ctx context.Context) (bool, error) {
	return true, nil
}

// Len reports the number of entries currently stored, expired or not. It is
// a debugging aid, not part of cachekit.Backend.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// Sweep removes every currently-expired entry. Callers may run it
// periodically (e.g. from a time.Ticker) to bound memory held by entries
// nobody reads again; it is optional, since Get already expires lazily.
func (b *Backend) Sweep() int {
	now := time.Now()
	removed := 0

	b.mu.Lock()
	for k, e := range b.data {
		if e.expired(now) {
			delete(b.data, k)
			removed++
		}
	}
	b.mu.Unlock()
	return removed
}
