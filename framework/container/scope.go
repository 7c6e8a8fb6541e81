package container

import (
	"context"

	"go.uber.org/zap"
)

// Scoped runs body in a new child scope of Current(ctx) and returns its
// result.
//
// The context handed to body is bound to the new scope, so everything that
// resolves through it (including goroutines started with it) resolves
// against the scope. When body returns, fails or panics, the scope is torn
// down: [OnDestroy] runs for every instance cached in it, and the scope
// cannot be used again.
//
//	n, err := container.Scoped(ctx, "import", func(ctx context.Context) (int, error) {
//	    tx, err := container.Inject(ctx, container.Type[*Tx]())
//	    ...
//	})
func Scoped[T any](ctx context.Context, name string, body func(ctx context.Context) (T, error)) (T, error) {
	return scopedIn(ctx, Current(ctx), name, body)
}

// Scope is the untyped form of [Scoped] that starts from c instead of the
// container bound to ctx.
func (c *Container) Scope(ctx context.Context, name string, body func(ctx context.Context) error) error {
	_, err := scopedIn(ctx, c, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, body(ctx)
	})
	return err
}

func scopedIn[T any](ctx context.Context, parent *Container, name string, body func(ctx context.Context) (T, error)) (T, error) {
	if parent.isRetired() {
		var zero T
		return zero, ErrContainerRetired
	}

	scope := newContainer(parent.name+"➤"+name, parent)
	log().Debug("entered scope", zap.String("container", scope.name))

	defer scope.clear()
	return body(withContainer(ctx, scope))
}
