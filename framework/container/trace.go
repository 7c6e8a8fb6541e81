package container

import (
	"context"
	"slices"
)

type traceKey struct{}

// TracePath returns the labels of the tokens currently under construction in
// ctx, outermost first. It is empty outside of a constructor.
func TracePath(ctx context.Context) []string {
	path, _ := ctx.Value(traceKey{}).([]string)
	return slices.Clone(path)
}

// depth is the number of tokens under construction in ctx.
func depth(ctx context.Context) int {
	path, _ := ctx.Value(traceKey{}).([]string)
	return len(path)
}

// withTrace runs fn with label appended to the dependency trace.
//
// The trace lives in the context, so the caller's trace is untouched whatever
// fn does: nested calls see the extended path and the caller keeps seeing
// the path as it was before the call.
func withTrace(ctx context.Context, label string, fn func(ctx context.Context) (any, error)) (any, error) {
	path, _ := ctx.Value(traceKey{}).([]string)

	if i := slices.Index(path, label); i >= 0 {
		cycle := make([]string, 0, len(path)-i+1)
		cycle = append(cycle, path[i:]...)
		cycle = append(cycle, label)
		return nil, &CircularDependencyError{Path: cycle}
	}

	// Full slice expression forces append to copy, so sibling frames never
	// share a backing array.
	next := append(path[:len(path):len(path)], label)
	return fn(context.WithValue(ctx, traceKey{}, next))
}
