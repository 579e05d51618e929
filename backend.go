package cachekit

import (
	"context"
	"time"
)

// Backend is the abstract byte-granular key/value store every concrete
// cache (in-process map, Redis, Memcached, ...) implements. Every
// operation is fallible with *BackendError. Implementations must be safe
// to share across goroutines; concurrent operations on distinct keys are
// independent, and the engine never assumes linearizability across keys —
// concurrent writes to the same key observe last-writer-wins ordering
// determined by the backend.
type Backend interface {
	// Get returns the raw envelope bytes stored at key, or nil, false if
	// absent or expired. A backend-level failure is returned as
	// *BackendError.
	Get(ctx context.Context, key Key) (value []byte, found bool, err error)

	// Set stores value at key. NoTTL (a TTLValue whose Duration reports
	// false) means no expiry. Existing values are overwritten atomically. A ttl of zero
	// still performs the write; subsequent reads must observe a miss.
	Set(ctx context.Context, key Key, value []byte, ttl TTLValue) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key Key) error

	// Exists reports whether key is present and unexpired.
	Exists(ctx context.Context, key Key) (bool, error)

	// MGet returns one result per input key, in the same order and
	// cardinality as keys.
	MGet(ctx context.Context, keys []Key) ([]MGetResult, error)

	// MDelete removes every key in keys.
	MDelete(ctx context.Context, keys []Key) error

	// ClearAll performs a single point-in-time bulk erase of every entry.
	ClearAll(ctx context.Context) error

	// HealthCheck reports whether the backend is currently reachable and
	// usable.
	HealthCheck(ctx context.Context) (bool, error)
}

// TTLValue is an explicit present/absent wrapper for a Backend.Set ttl
// argument, so "no expiry" and "expire immediately" (ttl == 0) are both
// unambiguous.
type TTLValue struct {
	duration time.Duration
	set      bool
}

// NoTTL is the zero TTLValue: "no expiry".
var NoTTL = TTLValue{}

// TTL wraps d as a present TTLValue. A zero d is "expire immediately", not
// "no expiry" — use NoTTL for that.
func TTL(d time.Duration) TTLValue { return TTLValue{duration: d, set: true} }

// Duration returns the wrapped duration and whether a TTL was set at all.
func (t TTLValue) Duration() (time.Duration, bool) { return t.duration, t.set }

// MGetResult is one slot of a Backend.MGet response.
type MGetResult struct {
	Value []byte
	Found bool
}
