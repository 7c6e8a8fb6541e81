// Package container is a scoped dependency injection runtime.
//
// # Overview
//
// Injectables are registered once, at startup, as a token plus a constructor.
// Instances are built lazily the first time they are resolved and cached in a
// container. Containers form a tree: the process-wide root container at the
// top, and short-lived scopes below it, typically one per request or job.
//
// The current container travels in a context.Context. Code that has a
// context can resolve without holding a container reference.
//
// # Tokens
//
//	container.Type[*Mailer]()                // the Go type
//	container.Named[string]("app.name")       // a string, equal by value
//	container.NewMarker[*sql.DB]("replica")   // unique on every call
//
// # Registration
//
//	container.RegisterType(func(ctx context.Context) (*Mailer, error) {
//	    cfg, err := container.Inject(ctx, config.Token)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewMailer(cfg.Mail), nil
//	})
//
//	// Root-pinned: one instance per process, even when first resolved in a scope.
//	container.RegisterType(NewMetrics, container.Root())
//
// # Resolving
//
//	m, err := container.Inject(ctx, container.Type[*Mailer]())
//	m, ok := container.InjectOptional(ctx, container.Type[*Mailer]()) // never constructs
//
// A lookup checks the current container, then its parent, up to the root. On
// a miss, the injectable is constructed in the current container (or the root
// when pinned). Errors are typed:
//
//   - [*MissingTokenError]: nothing cached and nothing registered
//   - [*DuplicateTokenError]: Provide on a token the container already holds
//   - [*CircularDependencyError]: a constructor needs, transitively, itself
//
// # Provided values
//
//	container.RootContainer().
//	    MustProvide(container.Named[string]("app.name"), "shop").
//	    MustProvide(container.Named[bool]("app.debug"), false)
//
// # Scopes
//
//	err := container.RootContainer().Scope(ctx, "job", func(ctx context.Context) error {
//	    svc, err := container.Inject(ctx, container.Type[*ImportService]())
//	    ...
//	})
//
// When the scope body returns, every instance cached in the scope that
// implements [OnDestroy] is destroyed and the scope is retired.
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(container.RootContainer())
//	registry.Register(&MailProvider{})
//	registry.Boot()
package container
