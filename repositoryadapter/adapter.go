// Package repositoryadapter adapts a github.com/goliatone/go-repository-bun
// Repository[T] into a cachekit.Repository[T], so an existing bun-backed
// repository can serve as the Repository collaborator of a cachekit.Engine
// without writing a bespoke FetchByID wrapper per entity.
package repositoryadapter

import (
	"context"
	"database/sql"
	"errors"

	repository "github.com/goliatone/go-repository-bun"

	"github.com/cachekit/cachekit"
)

// byIDFetcher is the slice of go-repository-bun's Repository[T] the
// adapter actually calls. Accepting this narrower interface instead of the
// full repository.Repository[T] means any bun repository (or a small test
// fake) can be wrapped without satisfying its write/transaction/scope
// surface.
type byIDFetcher[T any] interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error)
}

// Adapter wraps a bun repository's GetByID so it satisfies
// cachekit.Repository[T]. A bun "no rows" result surfaces as (zero value,
// false, nil); any other error propagates as-is, to be wrapped by the
// Engine as *RepositoryError.
type Adapter[T any] struct {
	base byIDFetcher[T]
}

var _ cachekit.Repository[struct{}] = Adapter[struct{}]{}

// New wraps base. base is typically a *bun.Repository[T] from
// github.com/goliatone/go-repository-bun, which satisfies byIDFetcher.
func New[T any](base repository.Repository[T]) Adapter[T] {
	return Adapter[T]{base: base}
}

// FetchByID implements cachekit.Repository.
func (a Adapter[T]) FetchByID(ctx context.Context, id string) (T, bool, error) {
	value, err := a.base.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var zero T
			return zero, false, nil
		}
		var zero T
		return zero, false, err
	}
	return value, true, nil
}
