package cachekit

import "context"

// Repository is the cache-oblivious lookup-by-id collaborator the engine
// calls on a cache miss. It never consults the cache itself.
type Repository[T any] interface {
	// FetchByID retrieves the entity for id. found is false when no such
	// entity exists; err is non-nil only on a genuine repository failure,
	// which is fatal to the operation (after retries).
	FetchByID(ctx context.Context, id string) (value T, found bool, err error)
}

// RepositoryFunc adapts a plain function to the Repository interface.
type RepositoryFunc[T any] func(ctx context.Context, id string) (T, bool, error)

// FetchByID implements Repository.
func (f RepositoryFunc[T]) FetchByID(ctx context.Context, id string) (T, bool, error) {
	return f(ctx, id)
}
