package container

import (
	"context"
	"sync"
)

// Constructor builds a new instance. The context carries the current container
// and dependency trace, so a constructor resolves its own dependencies with
// [Inject] instead of receiving them as parameters.
type Constructor func(ctx context.Context) (any, error)

// Injectable is the construction metadata for one token.
type Injectable struct {
	Token     Key
	Construct Constructor

	// Root pins constructed instances to the root container, making them
	// process-wide singletons no matter which scope triggered construction.
	Root bool
}

// Option configures an injectable during registration.
type Option func(*Injectable)

// Root pins the injectable to the root container.
//
//	container.RegisterType(NewMetrics, container.Root())
func Root() Option {
	return func(i *Injectable) {
		i.Root = true
	}
}

// Registry maps tokens to construction metadata. It is written during
// startup and read on every cache miss.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Injectable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Injectable)}
}

// registry is the process-wide registry consulted by every container.
var registry = NewRegistry()

// Set stores an injectable, silently replacing any earlier entry for the same
// token.
func (r *Registry) Set(i Injectable) error {
	if !validKey(i.Token) {
		return ErrInvalidToken
	}
	if i.Construct == nil {
		return ErrNilConstructor
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[i.Token.ID()] = i
	return nil
}

// Lookup returns the injectable registered for key.
func (r *Registry) Lookup(key Key) (Injectable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.entries[key.ID()]
	return i, ok
}

// Remove deletes the entry for key, if any.
func (r *Registry) Remove(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key.ID())
}

// Len returns the number of registered injectables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Register binds tok to ctor in the process-wide registry.
//
//	container.Register(container.Named[*Mailer]("mailer"), func(ctx context.Context) (*Mailer, error) {
//	    cfg, err := container.Inject(ctx, container.Type[*config.Config]())
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewMailer(cfg.Mail), nil
//	})
func Register[T any](tok Token[T], ctor func(ctx context.Context) (T, error), opts ...Option) error {
	if ctor == nil {
		return ErrNilConstructor
	}

	i := Injectable{
		Token: tok,
		Construct: func(ctx context.Context) (any, error) {
			return ctor(ctx)
		},
	}
	for _, opt := range opts {
		opt(&i)
	}
	return registry.Set(i)
}

// RegisterType binds ctor to the type token of its result, Type[T]().
func RegisterType[T any](ctor func(ctx context.Context) (T, error), opts ...Option) error {
	return Register(Type[T](), ctor, opts...)
}

// MustRegister is like Register but panics on error. It is meant for
// package-level var blocks and init functions.
func MustRegister[T any](tok Token[T], ctor func(ctx context.Context) (T, error), opts ...Option) Token[T] {
	if err := Register(tok, ctor, opts...); err != nil {
		panic(err)
	}
	return tok
}

// Lookup returns the injectable registered for key in the process-wide
// registry.
func Lookup(key Key) (Injectable, bool) {
	if !validKey(key) {
		return Injectable{}, false
	}
	return registry.Lookup(key)
}

// Unregister removes key from the process-wide registry. Instances already
// cached in containers are unaffected.
func Unregister(key Key) {
	if validKey(key) {
		registry.Remove(key)
	}
}

func validKey(k Key) bool {
	return k != nil && k.ID() != ""
}
