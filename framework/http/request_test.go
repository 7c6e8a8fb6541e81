package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/km-arc/go-inject/framework/container"
	gohttp "github.com/km-arc/go-inject/framework/http"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newJSONRequest(t *testing.T, body string) *gohttp.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return gohttp.NewRequest(req)
}

// ── Bind ─────────────────────────────────────────────────────────────────────

func TestRequest_Bind(t *testing.T) {
	type user struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	req := newJSONRequest(t, `{"name":"Alice","email":"alice@example.com"}`)

	var u user
	if err := req.Bind(&u); err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if u.Name != "Alice" {
		t.Errorf("Name: got %q want %q", u.Name, "Alice")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("Email: got %q want %q", u.Email, "alice@example.com")
	}
}

func TestRequest_Bind_EmptyBody(t *testing.T) {
	req := newJSONRequest(t, "")
	var v map[string]any
	if err := req.Bind(&v); err == nil {
		t.Error("expected error for empty body")
	}
}

// ── Input helpers ────────────────────────────────────────────────────────────

func TestRequest_Query(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/?page=2", nil))
	if got := req.Query("page"); got != "2" {
		t.Errorf("Query(page): got %q want %q", got, "2")
	}
	if got := req.Query("missing", "1"); got != "1" {
		t.Errorf("Query fallback: got %q want %q", got, "1")
	}
}

func TestRequest_RouteParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "7")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	if got := gohttp.NewRequest(r).RouteParam("id"); got != "7" {
		t.Errorf("RouteParam: got %q want %q", got, "7")
	}
}

func TestRequest_BearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"Basic dXNlcg==", ""},
		{"", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := gohttp.NewRequest(r).BearerToken(); got != tt.want {
			t.Errorf("BearerToken(%q): got %q want %q", tt.header, got, tt.want)
		}
	}
}

// ── Container access ─────────────────────────────────────────────────────────

func TestRequest_ContainerDefaultsToRoot(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if req.Container() != container.RootContainer() {
		t.Error("expected the root container outside a scope")
	}
}

func TestResolve_FromRequestScope(t *testing.T) {
	tok := container.NewMarker[string]("tenant")

	err := container.RootContainer().Scope(context.Background(), "req", func(ctx context.Context) error {
		if err := container.Provide(container.Current(ctx), tok, "acme"); err != nil {
			return err
		}

		r := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		req := gohttp.NewRequest(r)

		if req.Container().Name() != "root➤req" {
			t.Errorf("Container: got %q want %q", req.Container().Name(), "root➤req")
		}
		got, err := gohttp.Resolve(req, tok)
		if err != nil {
			return err
		}
		if got != "acme" {
			t.Errorf("Resolve: got %q want %q", got, "acme")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
}
