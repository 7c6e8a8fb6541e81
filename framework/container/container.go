package container

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// OnDestroy is implemented by injectables that hold resources. OnDestroy is
// called once, synchronously, when the scope caching the instance is torn
// down. Instances cached in the root container are never destroyed.
type OnDestroy interface {
	OnDestroy()
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container caches instances for one scope and links to the scope it was
// created in.
//
// Lookups walk the chain from a container up to the root; construction on a
// miss happens in the container that was asked (or in the root for
// injectables registered with [Root]).
type Container struct {
	name   string
	parent *Container

	mu sync.RWMutex

	// token ID → instance; an entry is never replaced once set
	instances map[string]any

	retired bool

	// dedups concurrent construction of the same token in this container
	flight singleflight.Group
}

// root is the process-wide container. It has no parent and is never torn down.
var root = newContainer("root", nil)

func newContainer(name string, parent *Container) *Container {
	return &Container{
		name:      name,
		parent:    parent,
		instances: make(map[string]any),
	}
}

// RootContainer returns the process-wide root container.
func RootContainer() *Container { return root }

type currentKey struct{}

// Current returns the container bound to ctx, or the root container when ctx
// is not inside a scope.
func Current(ctx context.Context) *Container {
	if c, ok := ctx.Value(currentKey{}).(*Container); ok {
		return c
	}
	return root
}

func withContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, currentKey{}, c)
}

// Bind returns a copy of ctx bound to c, for code that receives contexts from
// elsewhere (an HTTP server, a message consumer) and must resolve against c.
// Scopes bind their own context; Bind does not extend a scope's lifetime.
func (c *Container) Bind(ctx context.Context) context.Context {
	return withContainer(ctx, c)
}

// Name returns the diagnostic name of the container, e.g. "root➤request".
func (c *Container) Name() string { return c.name }

// Parent returns the container this scope was created in, or nil for the root.
func (c *Container) Parent() *Container { return c.parent }

// Len returns the number of instances cached directly in this container.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get returns the instance for key.
//
// The container and then each of its ancestors is checked for a cached
// instance. On a miss the registered injectable is constructed, cached in
// this container (or the root, for root-pinned injectables) and returned.
//
// Get fails with a [*MissingTokenError] when nothing is cached and nothing is
// registered, and with a [*CircularDependencyError] when constructing key
// requires key itself. Constructor errors are returned unchanged.
func (c *Container) Get(ctx context.Context, key Key) (any, error) {
	if !validKey(key) {
		return nil, ErrInvalidToken
	}
	if c.isRetired() {
		return nil, ErrContainerRetired
	}

	if instance, ok := c.TryGet(key); ok {
		return instance, nil
	}
	return c.construct(ctx, key)
}

// TryGet returns the instance cached for key in this container or one of its
// ancestors. It never constructs anything.
func (c *Container) TryGet(key Key) (any, bool) {
	if !validKey(key) {
		return nil, false
	}
	for cur := c; cur != nil; cur = cur.parent {
		if instance, ok := cur.local(key.ID()); ok {
			return instance, true
		}
	}
	return nil, false
}

// Provide caches a ready-made value for key in this container. Use it for
// values that are not built by an injectable, like configuration.
//
// Provide fails with a [*DuplicateTokenError] if this container already holds
// an instance for key, and with [ErrNilInstance] if v is nil. Zero values such
// as 0, "" or false are accepted.
func (c *Container) Provide(key Key, v any) error {
	if !validKey(key) {
		return ErrInvalidToken
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.retired {
		return ErrContainerRetired
	}
	if _, exists := c.instances[key.ID()]; exists {
		return &DuplicateTokenError{Container: c.name, Token: key.String()}
	}
	if v == nil {
		return ErrNilInstance
	}

	c.instances[key.ID()] = v
	return nil
}

// MustProvide is like Provide but panics on error and returns the container,
// so calls can be chained:
//
//	container.RootContainer().
//	    MustProvide(container.Named[string]("app.name"), "shop").
//	    MustProvide(container.Named[int]("app.workers"), 4)
func (c *Container) MustProvide(key Key, v any) *Container {
	if err := c.Provide(key, v); err != nil {
		panic(err)
	}
	return c
}

// construct builds key inside a trace frame. It is only called after a miss
// on the whole chain.
func (c *Container) construct(ctx context.Context, key Key) (any, error) {
	// The constructor resolves its own dependencies against c, even when the
	// caller's context is bound elsewhere.
	if Current(ctx) != c {
		ctx = withContainer(ctx, c)
	}

	instance, err := withTrace(ctx, key.String(), func(ctx context.Context) (any, error) {
		injectable, ok := registry.Lookup(key)
		if !ok {
			return nil, &MissingTokenError{Container: c.name, Token: key.String()}
		}

		target := c
		if injectable.Root {
			target = root
		}
		return target.build(ctx, key, injectable)
	})

	var cycle *CircularDependencyError
	if errors.As(err, &cycle) && cycle.Container == "" {
		cycle.Container = c.name
	}
	return instance, err
}

// build runs the constructor and caches the result in c.
//
// Outermost constructions of the same token in c share a single constructor
// call. Nested constructions build directly: a constructor that waited on
// another resolver's flight could be waiting on its own caller, which is a
// cycle the other resolver's trace cannot see. store keeps the first
// instance either way.
func (c *Container) build(ctx context.Context, key Key, injectable Injectable) (any, error) {
	if depth(ctx) > 1 {
		return c.buildNow(ctx, key, injectable)
	}

	instance, err, _ := c.flight.Do(key.ID(), func() (instance any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &constructorPanic{value: r}
			}
		}()
		return c.buildNow(ctx, key, injectable)
	})

	var p *constructorPanic
	if errors.As(err, &p) {
		panic(p.value)
	}
	return instance, err
}

func (c *Container) buildNow(ctx context.Context, key Key, injectable Injectable) (any, error) {
	// Another resolver may have finished between the chain lookup and here.
	if instance, ok := c.local(key.ID()); ok {
		return instance, nil
	}
	if c.isRetired() {
		return nil, ErrContainerRetired
	}

	instance, err := injectable.Construct(ctx)
	if err != nil {
		return nil, err
	}

	log().Debug("constructed injectable",
		zap.String("container", c.name),
		zap.String("token", key.String()),
		zap.Bool("root", injectable.Root),
	)
	return c.store(key.ID(), instance), nil
}

// constructorPanic carries a constructor's panic value out of the flight so
// it can be re-raised unchanged in every resolver that shared the call.
type constructorPanic struct {
	value any
}

func (p *constructorPanic) Error() string {
	return fmt.Sprintf("container: constructor panicked: %v", p.value)
}

func (c *Container) local(id string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	instance, ok := c.instances[id]
	return instance, ok
}

// store caches instance unless the slot was filled in the meantime (by a
// racing Provide), in which case the cached value wins and is returned.
func (c *Container) store(id string, instance any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.instances[id]; ok {
		return existing
	}
	c.instances[id] = instance
	return instance
}

func (c *Container) isRetired() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.retired
}

// ── Teardown ──────────────────────────────────────────────────────────────────

// clear runs the destructors of every cached instance, then empties and
// retires the container. A panicking destructor stops the remaining ones, but
// the container is still emptied and retired.
func (c *Container) clear() {
	c.mu.RLock()
	instances := slices.Collect(maps.Values(c.instances))
	c.mu.RUnlock()

	defer func() {
		c.mu.Lock()
		c.instances = make(map[string]any)
		c.retired = true
		c.mu.Unlock()
	}()

	destroyed := 0
	for _, instance := range instances {
		if d, ok := instance.(OnDestroy); ok {
			d.OnDestroy()
			destroyed++
		}
	}

	log().Debug("tore down scope",
		zap.String("container", c.name),
		zap.Int("instances", len(instances)),
		zap.Int("destroyed", destroyed),
	)
}
