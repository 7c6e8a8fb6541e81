package container

import (
	"context"
	"fmt"
	"reflect"
)

// ── Generic helpers ───────────────────────────────────────────────────────────

// Get resolves tok from c and returns it as a T.
//
//	db, err := container.Get(ctx, scope, container.Type[*sql.DB]())
func Get[T any](ctx context.Context, c *Container, tok Token[T]) (T, error) {
	instance, err := c.Get(ctx, tok)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](tok, instance)
}

// TryGet returns the cached instance for tok from c or one of its ancestors,
// without constructing anything. ok is false when nothing is cached or the
// cached value is not a T.
func TryGet[T any](c *Container, tok Token[T]) (v T, ok bool) {
	instance, found := c.TryGet(tok)
	if !found {
		return v, false
	}
	v, err := as[T](tok, instance)
	return v, err == nil
}

// Provide caches v for tok in c. See [Container.Provide].
func Provide[T any](c *Container, tok Token[T], v T) error {
	return c.Provide(tok, v)
}

// Inject resolves tok from the container bound to ctx.
//
//	func NewUserService(ctx context.Context) (*UserService, error) {
//	    repo, err := container.Inject(ctx, container.Type[*UserRepo]())
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &UserService{Repo: repo}, nil
//	}
func Inject[T any](ctx context.Context, tok Token[T]) (T, error) {
	return Get(ctx, Current(ctx), tok)
}

// InjectOptional returns the instance for tok if one is already cached in the
// current container chain. It never constructs.
func InjectOptional[T any](ctx context.Context, tok Token[T]) (T, bool) {
	return TryGet(Current(ctx), tok)
}

// MustInject is like Inject but panics on error.
func MustInject[T any](ctx context.Context, tok Token[T]) T {
	v, err := Inject(ctx, tok)
	if err != nil {
		panic(err)
	}
	return v
}

func as[T any](key Key, instance any) (T, error) {
	if v, ok := instance.(T); ok {
		return v, nil
	}

	var zero T
	// A nil interface result from a constructor is cached as-is.
	if instance == nil {
		return zero, nil
	}
	return zero, &WrongTypeError{
		Token: key.String(),
		Got:   fmt.Sprintf("%T", instance),
		Want:  reflect.TypeOf((*T)(nil)).Elem().String(),
	}
}
