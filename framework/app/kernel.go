package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/logging"
	"github.com/km-arc/go-inject/framework/providers"
	"github.com/km-arc/go-inject/framework/routing"
)

// Application ties a container to the framework providers and the HTTP
// server. In a binary it wraps the root container; tests build one inside a
// scope so each gets its own configuration and router.
type Application struct {
	Container *container.Container
	Providers *container.ProviderRegistry

	ctx context.Context
}

// New creates an application on the container bound to ctx and registers
// the framework providers (config, logging, routing) in that order.
//
//	application, err := app.New(context.Background())
func New(ctx context.Context, envFiles ...string) (*Application, error) {
	return NewWith(ctx,
		&providers.ConfigServiceProvider{EnvFiles: envFiles},
		&providers.LoggingServiceProvider{},
		&providers.RoutingServiceProvider{},
	)
}

// NewWith creates an application with an explicit list of providers.
func NewWith(ctx context.Context, list ...container.ServiceProvider) (*Application, error) {
	c := container.Current(ctx)
	a := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		ctx:       ctx,
	}
	for _, p := range list {
		if err := a.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Context returns the context bound to the application container.
func (a *Application) Context() context.Context { return a.ctx }

// Config resolves the application configuration.
func (a *Application) Config() *config.Config {
	return mustResolve(a, config.Token)
}

// Logger resolves the application logger.
func (a *Application) Logger() *zap.Logger {
	return mustResolve(a, logging.Token)
}

// Router resolves the application router.
func (a *Application) Router() *routing.Router {
	return mustResolve(a, routing.Token)
}

// Handler returns the router wrapped so that every request context is bound
// to the application container. Request scopes are then created below it.
func (a *Application) Handler() http.Handler {
	router := a.Router()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r.WithContext(a.Container.Bind(r.Context())))
	})
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is cancelled, then shuts the server down gracefully within
// SHUTDOWN_TIMEOUT.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}

	cfg := a.Config()
	logger := a.Logger()

	srv := &http.Server{
		Addr:        ":" + cfg.App.Port,
		Handler:     a.Handler(),
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Config().IsProduction() }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }

func mustResolve[T any](a *Application, tok container.Token[T]) T {
	v, err := container.Get(a.ctx, a.Container, tok)
	if err != nil {
		panic(fmt.Errorf("app: resolving %s: %w", tok, err))
	}
	return v
}
