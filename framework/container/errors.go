package container

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilInstance is returned when Provide is called with a nil value.
	// Only the nil interface is rejected; zero values are valid bindings.
	ErrNilInstance = errors.New("container: cannot provide a nil instance")

	// ErrInvalidToken is returned for a nil key or a zero-value Token.
	ErrInvalidToken = errors.New("container: invalid token")

	// ErrNilConstructor is returned when registering an injectable without a
	// constructor.
	ErrNilConstructor = errors.New("container: nil constructor")

	// ErrContainerRetired is returned when a scope is used after its
	// teardown.
	ErrContainerRetired = errors.New("container: scope has been torn down")
)

// MissingTokenError is returned when a token has no cached instance anywhere
// on the container chain and no registered injectable.
type MissingTokenError struct {
	Container string
	Token     string
}

func (e *MissingTokenError) Error() string {
	return fmt.Sprintf("container: missing token in container %s: %s. Did you forget to provide a value for this token?",
		e.Container, e.Token)
}

// DuplicateTokenError is returned when Provide targets a token that already
// has an instance in that exact container.
type DuplicateTokenError struct {
	Container string
	Token     string
}

func (e *DuplicateTokenError) Error() string {
	return fmt.Sprintf("container: duplicate token in container %s: %s", e.Container, e.Token)
}

// CircularDependencyError is returned when constructing a token re-enters a
// token that is already under construction. Path is the minimal cycle, from
// the first occurrence of the repeated label through the repeated label.
type CircularDependencyError struct {
	// Container is the container whose Get discovered the cycle. The trace
	// itself knows nothing about containers, so this is filled in afterwards.
	Container string
	Path      []string
}

func (e *CircularDependencyError) Error() string {
	container := e.Container
	if container == "" {
		container = "<unknown>"
	}
	return fmt.Sprintf("container: circular dependency detected in container %s: %s",
		container, strings.Join(e.Path, " ➤ "))
}

// WrongTypeError is returned by the typed helpers when the cached value for a
// token is not of the requested type. This usually means two Named tokens
// share a name.
type WrongTypeError struct {
	Token string
	Got   string
	Want  string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("container: token %s holds %s, not %s", e.Token, e.Got, e.Want)
}
