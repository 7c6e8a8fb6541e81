package container

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Key identifies a bindable slot in a container. It is the untyped view of a
// [Token]; the container only ever compares keys by ID.
type Key interface {
	// ID is the identity of the key. Two keys are the same slot exactly when
	// their IDs are equal.
	ID() string

	// String is the display form used in dependency traces and errors.
	String() string
}

// Token is a typed injection token for values of type T.
//
// Tokens come in three kinds:
//
//	container.Type[*Mailer]()               // the Go type itself
//	container.Named[string]("app.name")      // a plain string, shared by value
//	container.NewMarker[*sql.DB]("primary")  // unique on every call
//
// Tokens are comparable and never change after creation.
type Token[T any] struct {
	id    string
	label string
}

// ID implements [Key].
func (t Token[T]) ID() string { return t.id }

// String implements [Key].
func (t Token[T]) String() string { return t.label }

// typeIDs interns one identity per reflect.Type, so two type tokens for the
// same type are equal.
var typeIDs sync.Map // reflect.Type → string

// Type returns the token for the Go type T.
//
//	container.RegisterType(NewMailer)              // binds Type[*Mailer]()
//	m, err := container.Inject(ctx, container.Type[*Mailer]())
func Type[T any]() Token[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	id, _ := typeIDs.LoadOrStore(t, uuid.NewString())
	return Token[T]{id: "type:" + id.(string), label: typeLabel(t)}
}

// typeLabel is t's name qualified with its full import path, so types from
// different packages with the same short name get different labels:
// "*github.com/acme/shop/models.User" rather than "*models.User".
func typeLabel(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + typeLabel(t.Elem())
	case reflect.Slice:
		return "[]" + typeLabel(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), typeLabel(t.Elem()))
	case reflect.Map:
		return "map[" + typeLabel(t.Key()) + "]" + typeLabel(t.Elem())
	case reflect.Chan:
		return t.ChanDir().String() + " " + typeLabel(t.Elem())
	default:
		return t.String()
	}
}

// Named returns a string token. Equal names are the same token regardless of
// T; keeping names unique is the caller's responsibility.
func Named[T any](name string) Token[T] {
	return Token[T]{id: "name:" + name, label: name}
}

// NewMarker returns a fresh token that never equals any other token, even one
// created with the same label. The label is only used for diagnostics.
func NewMarker[T any](label string) Token[T] {
	return Token[T]{id: "marker:" + uuid.NewString(), label: label}
}
