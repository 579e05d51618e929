package cachekit

import (
	"context"
	"time"
)

// Strategy selects one of the four explicit cache read/write patterns an
// Engine can execute. Names are domain, not syntax.
type Strategy int

const (
	// StrategyCacheOnly ("cache-only"): read the cache; never call the
	// repository, never write back.
	StrategyCacheOnly Strategy = iota

	// StrategyReadThrough ("read-through with refill"): the default.
	// Read the cache; on miss, decode failure, or backend error, call the
	// repository and write the result back.
	StrategyReadThrough

	// StrategyInvalidateRefill ("invalidate then refill"): delete the key
	// unconditionally, then always call the repository and write back.
	StrategyInvalidateRefill

	// StrategySkipCache ("skip cache"): call the repository directly;
	// never read or write the cache.
	StrategySkipCache
)

const (
	backoffBase time.Duration = 10 * time.Millisecond
	backoffCap  time.Duration = time.Second
)

// Engine executes one of the four Strategy values against a Backend and a
// Repository for a single entity type T.
type Engine[T any] struct {
	codec        EntityCodec[T]
	backend      Backend
	ttl          TTLPolicy
	hook         safeHook
	defaultRetry int
}

// NewEngine constructs an Engine for entity type T. It validates codec and
// ttl and rejects a nil backend.
func NewEngine[T any](codec EntityCodec[T], backend Backend, ttl TTLPolicy) (*Engine[T], error) {
	if err := codec.Validate(); err != nil {
		return nil, err
	}
	if err := ttl.Validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, &ConfigError{Field: "Backend", Message: "must not be nil"}
	}
	return &Engine[T]{
		codec:   codec,
		backend: backend,
		ttl:     ttl,
		hook:    newSafeHook(nil),
	}, nil
}

// WithHook attaches an ObservabilityHook. It returns the Engine for
// chaining.
func (e *Engine[T]) WithHook(h ObservabilityHook) *Engine[T] {
	e.hook = newSafeHook(h)
	return e
}

// WithDefaultRetryCount sets the retry budget operations use when their
// OperationConfig.RetryCount is nil.
func (e *Engine[T]) WithDefaultRetryCount(n int) *Engine[T] {
	e.defaultRetry = n
	return e
}

func (e *Engine[T]) retryCount(op OperationConfig) int {
	if op.RetryCount != nil {
		return *op.RetryCount
	}
	return e.defaultRetry
}

// Execute runs strategy for feeder against repo, in order: read-backend ->
// repository-lookup -> write-backend -> observe -> feed. Feed is called at
// most once, and never on a fatal error.
func (e *Engine[T]) Execute(ctx context.Context, feeder Feeder[T], repo Repository[T], strategy Strategy, op OperationConfig) error {
	start := time.Now()
	if op.Timeout != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *op.Timeout)
		defer cancel()
	}

	id := feeder.EntityID()
	key := e.codec.keyForID(id)

	var err error
	switch strategy {
	case StrategyCacheOnly:
		err = e.executeCacheOnly(ctx, feeder, key, op)
	case StrategyInvalidateRefill:
		err = e.executeInvalidateRefill(ctx, feeder, repo, key, id, op)
	case StrategySkipCache:
		err = e.executeSkipCache(ctx, feeder, repo, id, op)
	default:
		err = e.executeReadThrough(ctx, feeder, repo, key, id, op)
	}

	if op.Timeout != nil && ctx.Err() != nil {
		e.hook.onError(key, ErrorKindTimeout, TagsFromContext(ctx), time.Since(start))
		return &TimeoutError{Key: string(key)}
	}
	return err
}

func (e *Engine[T]) executeCacheOnly(ctx context.Context, feeder Feeder[T], key Key, op OperationConfig) error {
	start := time.Now()
	tags := TagsFromContext(ctx)
	retries := e.retryCount(op)

	var raw []byte
	var hit bool
	err := retryWithBackoff(ctx, retries, func() error {
		var readErr error
		raw, hit, readErr = e.backend.Get(ctx, key)
		return readErr
	})

	if err != nil {
		e.hook.onError(key, ErrorKindBackendRead, tags, time.Since(start))
		e.feed(ctx, feeder, zero[T](), false)
		return nil
	}

	if !hit {
		e.hook.onMiss(key, tags, time.Since(start))
		e.feed(ctx, feeder, zero[T](), false)
		return nil
	}

	value, decodeErr := e.decode(key, raw)
	if decodeErr != nil {
		e.hook.onError(key, decodeErrorKind(decodeErr), tags, time.Since(start))
		e.feed(ctx, feeder, zero[T](), false)
		return nil
	}

	e.hook.onHit(key, tags, time.Since(start))
	e.feed(ctx, feeder, value, true)
	return nil
}

func (e *Engine[T]) executeReadThrough(ctx context.Context, feeder Feeder[T], repo Repository[T], key Key, id string, op OperationConfig) error {
	start := time.Now()
	tags := TagsFromContext(ctx)

	raw, hit, readErr := e.backend.Get(ctx, key)
	if readErr != nil {
		e.hook.onError(key, ErrorKindBackendRead, tags, time.Since(start))
		return e.refill(ctx, feeder, repo, key, id, op, start)
	}
	if !hit {
		e.hook.onMiss(key, tags, time.Since(start))
		return e.refill(ctx, feeder, repo, key, id, op, start)
	}

	value, decodeErr := e.decode(key, raw)
	if decodeErr != nil {
		e.hook.onError(key, decodeErrorKind(decodeErr), tags, time.Since(start))
		return e.refill(ctx, feeder, repo, key, id, op, start)
	}

	e.hook.onHit(key, tags, time.Since(start))
	e.feed(ctx, feeder, value, true)
	return nil
}

func (e *Engine[T]) executeInvalidateRefill(ctx context.Context, feeder Feeder[T], repo Repository[T], key Key, id string, op OperationConfig) error {
	start := time.Now()
	if err := e.backend.Delete(ctx, key); err != nil {
		e.hook.onError(key, ErrorKindBackendWrite, TagsFromContext(ctx), time.Since(start))
	}
	return e.refill(ctx, feeder, repo, key, id, op, start)
}

func (e *Engine[T]) executeSkipCache(ctx context.Context, feeder Feeder[T], repo Repository[T], id string, op OperationConfig) error {
	start := time.Now()
	key := e.codec.keyForID(id)
	value, found, err := e.fetchRepository(ctx, repo, id, op)
	if err != nil {
		e.hook.onError(key, ErrorKindRepository, TagsFromContext(ctx), time.Since(start))
		return &RepositoryError{ID: id, Err: err}
	}
	e.feed(ctx, feeder, value, found)
	return nil
}

// refill is the shared "call repository, write back, feed" tail used by
// Strategy B on miss/decode-failure/backend-error and unconditionally by
// Strategy C.
func (e *Engine[T]) refill(ctx context.Context, feeder Feeder[T], repo Repository[T], key Key, id string, op OperationConfig, start time.Time) error {
	value, found, err := e.fetchRepository(ctx, repo, id, op)
	if err != nil {
		e.hook.onError(key, ErrorKindRepository, TagsFromContext(ctx), time.Since(start))
		return &RepositoryError{ID: id, Err: err}
	}

	if !found {
		e.feed(ctx, feeder, zero[T](), false)
		return nil
	}

	e.writeBack(ctx, key, value, op, start)
	e.feed(ctx, feeder, value, true)
	return nil
}

func (e *Engine[T]) fetchRepository(ctx context.Context, repo Repository[T], id string, op OperationConfig) (T, bool, error) {
	retries := e.retryCount(op)

	var value T
	var found bool
	err := retryWithBackoff(ctx, retries, func() error {
		var fetchErr error
		value, found, fetchErr = repo.FetchByID(ctx, id)
		return fetchErr
	})
	if err != nil {
		var zeroVal T
		return zeroVal, false, err
	}
	return value, found, nil
}

// writeBack serializes, wraps, resolves the TTL, and writes value to the
// backend. A write failure is reported via the hook and never fails the
// operation: it is always a best-effort write.
func (e *Engine[T]) writeBack(ctx context.Context, key Key, value T, op OperationConfig, start time.Time) {
	if ctx.Err() != nil {
		return
	}

	tags := TagsFromContext(ctx)

	payload, err := e.codec.Serialize(value)
	if err != nil {
		e.hook.onError(key, ErrorKindBackendWrite, tags, time.Since(start))
		return
	}

	envelope := wrapEnvelope(payload)

	ttl := NoTTL
	if d, ok := e.ttl.Resolve(e.codec.Prefix, op.TTLOverride); ok {
		ttl = TTL(d)
	}

	if err := e.backend.Set(ctx, key, envelope, ttl); err != nil {
		e.hook.onError(key, ErrorKindBackendWrite, tags, time.Since(start))
		return
	}

	e.hook.onSet(key, tags, time.Since(start))
}

func (e *Engine[T]) decode(key Key, raw []byte) (T, error) {
	payload, err := unwrapEnvelope(key, raw)
	if err != nil {
		var zeroVal T
		return zeroVal, err
	}

	value, err := e.codec.Deserialize(payload)
	if err != nil {
		var zeroVal T
		return zeroVal, &DeserializationError{Prefix: e.codec.Prefix, Err: err}
	}
	return value, nil
}

func decodeErrorKind(err error) ErrorKind {
	switch err.(type) {
	case *InvalidCacheEntryError:
		return ErrorKindInvalidEntry
	case *VersionMismatchError:
		return ErrorKindVersionMismatch
	default:
		return ErrorKindDeserialization
	}
}

func zero[T any]() T {
	var v T
	return v
}

// feed delivers value to feeder unless ctx has already expired — a timed
// out operation must leave the feeder untouched.
func (e *Engine[T]) feed(ctx context.Context, feeder Feeder[T], value T, found bool) {
	if ctx.Err() != nil {
		return
	}
	feeder.Feed(value, found)
}

// retryWithBackoff runs fn up to retries+1 times, sleeping base 10ms
// doubling per attempt and capped at 1s between attempts. It stops early
// and returns fn's last error if ctx is done while waiting.
func retryWithBackoff(ctx context.Context, retries int, fn func() error) error {
	delay := backoffBase
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
		delay *= 2
		if delay > backoffCap {
			delay = backoffCap
		}
	}
	return err
}
