package routing

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/km-arc/go-inject/framework/container"
)

// Tokens provided into every request scope.
var (
	RequestToken   = container.Type[*http.Request]()
	ResponseToken  = container.Type[http.ResponseWriter]()
	RequestIDToken = container.Named[string]("routing.request_id")
)

// ScopePerRequest runs the rest of the chain inside a new scope of the
// container bound to the request context. The scope is named after the chi
// request ID when one is set, and is torn down when the handler returns.
//
// The request, the response writer and the request ID are provided into the
// scope, so request-scoped injectables can resolve them:
//
//	container.RegisterType(func(ctx context.Context) (*Audit, error) {
//	    req, err := container.Inject(ctx, routing.RequestToken)
//	    ...
//	})
func ScopePerRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := middleware.GetReqID(r.Context())
		name := "request"
		if id != "" {
			name += ":" + id
		}

		parent := container.Current(r.Context())
		err := parent.Scope(r.Context(), name, func(ctx context.Context) error {
			r := r.WithContext(ctx)
			scope := container.Current(ctx)

			if err := container.Provide(scope, RequestToken, r); err != nil {
				return err
			}
			if err := container.Provide(scope, ResponseToken, w); err != nil {
				return err
			}
			if id != "" {
				if err := container.Provide(scope, RequestIDToken, id); err != nil {
					return err
				}
			}

			next.ServeHTTP(w, r)
			return nil
		})
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}
