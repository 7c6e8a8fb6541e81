package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/km-arc/go-inject/framework/container"
)

// Response wraps http.ResponseWriter with JSON helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// ── JSON responses ────────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Created sends 201 JSON: {"data": v}
func (res *Response) Created(v any) {
	res.JSON(http.StatusCreated, envelope{"data": v})
}

// NoContent sends 204 with no body.
func (res *Response) NoContent() {
	res.w.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error response.
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// Unauthorized sends 401.
func (res *Response) Unauthorized(message ...string) {
	res.Error(http.StatusUnauthorized, first(message, "Unauthenticated."))
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Server Error."))
}

// ── Container errors ─────────────────────────────────────────────────────────

// ContainerError sends a 500 for an error returned while resolving a
// dependency. With debug set, the body carries the container's diagnostic
// message and an error kind; otherwise it is the generic server error.
func (res *Response) ContainerError(err error, debug bool) {
	if !debug {
		res.ServerError()
		return
	}
	res.JSON(http.StatusInternalServerError, envelope{
		"message": err.Error(),
		"kind":    ErrorKind(err),
	})
}

// ErrorKind names the class of a container error: "missing_token",
// "duplicate_token", "circular_dependency", "wrong_type", "retired_scope"
// or "internal" for anything else.
func ErrorKind(err error) string {
	var (
		missing  *container.MissingTokenError
		dup      *container.DuplicateTokenError
		cycle    *container.CircularDependencyError
		mismatch *container.WrongTypeError
	)
	switch {
	case errors.As(err, &missing):
		return "missing_token"
	case errors.As(err, &dup):
		return "duplicate_token"
	case errors.As(err, &cycle):
		return "circular_dependency"
	case errors.As(err, &mismatch):
		return "wrong_type"
	case errors.Is(err, container.ErrContainerRetired):
		return "retired_scope"
	default:
		return "internal"
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
