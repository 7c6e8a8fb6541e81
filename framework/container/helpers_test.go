package container

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// Shared test types and helpers.

type testService struct{ ID int64 }

type testResource struct {
	destroyed atomic.Int32
}

func (r *testResource) OnDestroy() { r.destroyed.Add(1) }

// counted registers a fresh marker token whose constructor counts its calls.
func counted(t *testing.T, label string, opts ...Option) (Token[*testService], *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	tok := NewMarker[*testService](label)
	require.NoError(t, Register(tok, func(context.Context) (*testService, error) {
		return &testService{ID: calls.Add(1)}, nil
	}, opts...))
	t.Cleanup(func() { Unregister(tok) })
	return tok, &calls
}

// resource registers a fresh marker token constructing destroyable resources.
func resource(t *testing.T, label string, opts ...Option) Token[*testResource] {
	t.Helper()
	tok := NewMarker[*testResource](label)
	require.NoError(t, Register(tok, func(context.Context) (*testResource, error) {
		return &testResource{}, nil
	}, opts...))
	t.Cleanup(func() { Unregister(tok) })
	return tok
}

// inScope runs fn inside a fresh scope of the root container and fails the
// test on error.
func inScope(t *testing.T, name string, fn func(ctx context.Context, scope *Container)) {
	t.Helper()
	err := RootContainer().Scope(context.Background(), name, func(ctx context.Context) error {
		fn(ctx, Current(ctx))
		return nil
	})
	require.NoError(t, err)
}
