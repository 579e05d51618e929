// Package cachekit is a read-through cache coordination library that sits
// between an application's repositories and a pluggable storage backend.
//
// # Overview
//
// The package exports the coordination engine described by four explicit
// read/write strategies:
//
//   - Strategy A (cache-only): read the cache, never touch the repository.
//   - Strategy B (read-through with refill): the default — read the cache,
//     fall back to the repository on miss, write the result back.
//   - Strategy C (invalidate then refill): drop the cached entry and always
//     refetch from the repository.
//   - Strategy D (skip cache): call the repository directly.
//
// # Basic Usage
//
//	codec := cachekit.EntityCodec[User]{
//		Prefix:      "user",
//		KeyOf:       func(u User) cachekit.Key { return cachekit.Key(u.ID) },
//		Serialize:   cachekit.JSONSerialize[User],
//		Deserialize: cachekit.JSONDeserialize[User],
//	}
//	backend := memstore.New()
//	engine, err := cachekit.NewEngine(codec, backend, cachekit.TTLPolicy{Kind: cachekit.TTLFixed, Fixed: time.Hour})
//
//	feeder := cachekit.NewFeeder[User]("u1")
//	err = engine.Execute(ctx, feeder, repo, cachekit.StrategyReadThrough, cachekit.OperationConfig{})
//	user, ok := feeder.Result()
//
// # Envelope
//
// Every value written to a Backend is wrapped in a small binary envelope
// (magic tag + schema version + payload) so that corrupted entries and
// entries written by an older schema version self-reject as cache misses
// instead of producing garbage. See envelope.go.
//
// # Backends
//
// cachekit only depends on the abstract Backend interface (backend.go).
// The memstore package provides an in-process reference implementation used
// by this module's own tests; backend/sturdycbackend provides an
// alternative built on sturdyc.
//
// # See Also
//
// DESIGN.md documents where each piece of this package is grounded.
package cachekit
