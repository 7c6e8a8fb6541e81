package routing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New(nil)
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)
	r.Put("/users/{id}", okHandler)
	r.Patch("/users/{id}", okHandler)
	r.Delete("/users/{id}", okHandler)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/hello"},
		{http.MethodPost, "/users"},
		{http.MethodPut, "/users/1"},
		{http.MethodPatch, "/users/1"},
		{http.MethodDelete, "/users/1"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := do(t, r, tt.method, tt.path)
			if rr.Code != http.StatusOK {
				t.Errorf("got %d want 200", rr.Code)
			}
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := routing.New(nil)
	rr := do(t, r, http.MethodGet, "/not-registered")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := routing.New(nil)
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := routing.Param(req, "id")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(id))
	})

	rr := do(t, r, http.MethodGet, "/users/42")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	if rr.Body.String() != "42" {
		t.Errorf("got body %q want %q", rr.Body.String(), "42")
	}
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New(nil)
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", okHandler)
	})

	rr := do(t, r, http.MethodGet, "/api/v1/users")
	if rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/users: got %d want 200", rr.Code)
	}

	// Root must 404
	rr2 := do(t, r, http.MethodGet, "/users")
	if rr2.Code != http.StatusNotFound {
		t.Errorf("GET /users: expected 404, got %d", rr2.Code)
	}
}

func TestRouter_Group_MiddlewareRunsInScope(t *testing.T) {
	var inScope bool
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inScope = container.Current(r.Context()) != container.RootContainer()
			next.ServeHTTP(w, r)
		})
	}

	r := routing.New(nil)
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})

	do(t, r, http.MethodGet, "/protected")
	if !inScope {
		t.Error("expected group middleware to run inside the request scope")
	}
}

// ── Request scopes ───────────────────────────────────────────────────────────

type requestAudit struct {
	path      string
	destroyed *atomic.Int32
}

func (a *requestAudit) OnDestroy() { a.destroyed.Add(1) }

func TestScopePerRequest_ProvidesRequest(t *testing.T) {
	r := routing.New(nil)
	r.Get("/whoami", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		got, err := container.Inject(ctx, routing.RequestToken)
		require.NoError(t, err)
		assert.Equal(t, "/whoami", got.URL.Path)

		id, ok := container.InjectOptional(ctx, routing.RequestIDToken)
		assert.True(t, ok)
		assert.NotEmpty(t, id)
		assert.Equal(t, "root➤request:"+id, container.Current(ctx).Name())

		rw, err := container.Inject(ctx, routing.ResponseToken)
		require.NoError(t, err)
		rw.WriteHeader(http.StatusAccepted)
	})

	rr := do(t, r, http.MethodGet, "/whoami")
	assert.Equal(t, http.StatusAccepted, rr.Code)
}

func TestScopePerRequest_TearsDownAfterEachRequest(t *testing.T) {
	var destroyed atomic.Int32
	tok := container.NewMarker[*requestAudit]("audit")
	require.NoError(t, container.Register(tok, func(ctx context.Context) (*requestAudit, error) {
		req, err := container.Inject(ctx, routing.RequestToken)
		if err != nil {
			return nil, err
		}
		return &requestAudit{path: req.URL.Path, destroyed: &destroyed}, nil
	}))
	t.Cleanup(func() { container.Unregister(tok) })

	var seen []*requestAudit
	r := routing.New(nil)
	r.Get("/a/{n}", func(w http.ResponseWriter, req *http.Request) {
		a := container.MustInject(req.Context(), tok)
		again := container.MustInject(req.Context(), tok)
		assert.Same(t, a, again)
		seen = append(seen, a)
		w.WriteHeader(http.StatusOK)
	})

	do(t, r, http.MethodGet, "/a/1")
	assert.EqualValues(t, 1, destroyed.Load())
	do(t, r, http.MethodGet, "/a/2")
	assert.EqualValues(t, 2, destroyed.Load())

	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
	assert.Equal(t, "/a/1", seen[0].path)
	assert.Equal(t, "/a/2", seen[1].path)

	_, ok := container.TryGet(container.RootContainer(), tok)
	assert.False(t, ok, "request-scoped instances must not reach the root")
}

// ── Access log ───────────────────────────────────────────────────────────────

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := routing.New(zap.New(core))
	r.Get("/ping", okHandler)
	do(t, r, http.MethodGet, "/ping")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/ping", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

// ── Handler() returns http.Handler ───────────────────────────────────────────

func TestRouter_HandlerInterface(t *testing.T) {
	r := routing.New(nil)
	r.Get("/ping", okHandler)
	var _ http.Handler = r.Handler()
}
