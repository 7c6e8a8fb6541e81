package providers

import (
	"context"

	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/logging"
	"github.com/km-arc/go-inject/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// provides it into the application container.
//
// Provided tokens:
//   - config.Token → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string

	// Config, when set, is provided as is and no .env file is read.
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	cfg := p.Config
	if cfg == nil {
		cfg = config.Load(p.EnvFiles...)
	}
	return container.Provide(app, config.Token, cfg)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the zap logger from configuration and hands
// it to the container package for its debug output.
//
// Registered tokens:
//   - logging.Token → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider

	// Logger, when set, is provided instead of building one from config.
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	if p.Logger != nil {
		return container.Provide(app, logging.Token, p.Logger)
	}
	return container.Register(logging.Token, func(ctx context.Context) (*zap.Logger, error) {
		cfg, err := container.Inject(ctx, config.Token)
		if err != nil {
			return nil, err
		}
		return logging.New(cfg)
	})
}

func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	logger, err := container.Get(context.Background(), app, logging.Token)
	if err != nil {
		return err
	}
	container.SetLogger(logger)
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. The router logs requests
// through the application logger.
//
// Registered tokens:
//   - routing.Token → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	return container.Register(routing.Token, func(ctx context.Context) (*routing.Router, error) {
		logger, err := container.Inject(ctx, logging.Token)
		if err != nil {
			return nil, err
		}
		return routing.New(logger), nil
	})
}
