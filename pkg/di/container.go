// Package di provides dependency injection for cachekit components: a
// struct holding the shared singletons, plus a package-level generic
// constructor for the type-parameterized component methods cannot carry.
package di

import (
	"github.com/cachekit/cachekit"
	"github.com/cachekit/cachekit/memstore"
)

// Container owns the shared, non-generic collaborators every Engine[T]
// built from it reuses: the backend, the TTL policy, and an optional
// observability hook.
type Container struct {
	backend cachekit.Backend
	ttl     cachekit.TTLPolicy
	hook    cachekit.ObservabilityHook
}

// Config configures a Container.
type Config struct {
	// Backend is the Backend every Engine built from this Container uses.
	// If nil, NewContainer constructs a memstore.Backend.
	Backend cachekit.Backend

	TTLPolicy cachekit.TTLPolicy
	Hook      cachekit.ObservabilityHook
}

// NewContainer validates cfg and constructs a Container.
func NewContainer(cfg Config) (*Container, error) {
	if err := cfg.TTLPolicy.Validate(); err != nil {
		return nil, err
	}

	backend := cfg.Backend
	if backend == nil {
		backend = memstore.New()
	}

	return &Container{
		backend: backend,
		ttl:     cfg.TTLPolicy,
		hook:    cfg.Hook,
	}, nil
}

// NewContainerWithDefaults builds a Container backed by an in-process
// memstore.Backend, no TTL policy, and no observability hook.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(Config{})
}

// Backend returns the Container's shared Backend.
func (c *Container) Backend() cachekit.Backend { return c.backend }

// TTLPolicy returns the Container's TTL policy.
func (c *Container) TTLPolicy() cachekit.TTLPolicy { return c.ttl }

// NewEngine builds a cachekit.Engine[T] wired to container's shared
// Backend, TTLPolicy, and ObservabilityHook. Since Go methods cannot carry
// their own type parameters, this is a package-level function instead of
// a method on Container.
func NewEngine[T any](container *Container, codec cachekit.EntityCodec[T]) (*cachekit.Engine[T], error) {
	engine, err := cachekit.NewEngine(codec, container.backend, container.ttl)
	if err != nil {
		return nil, err
	}
	if container.hook != nil {
		engine.WithHook(container.hook)
	}
	return engine, nil
}
