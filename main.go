package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/app"
	"github.com/km-arc/go-inject/framework/container"
	gohttp "github.com/km-arc/go-inject/framework/http"
	"github.com/km-arc/go-inject/framework/logging"
	"github.com/km-arc/go-inject/framework/routing"
)

// ── Injectables ──────────────────────────────────────────────────────────────

// HitCounter is shared by every request: it is pinned to the root container.
type HitCounter struct {
	hits atomic.Int64
}

func (c *HitCounter) Hit() int64 { return c.hits.Add(1) }

// Audit lives for one request. It is torn down, and logs what it saw, when
// the request scope ends.
type Audit struct {
	logger  *zap.Logger
	request string
	started time.Time
	events  []string
}

func (a *Audit) Record(event string) { a.events = append(a.events, event) }

func (a *Audit) OnDestroy() {
	a.logger.Info("audit",
		zap.String("request", a.request),
		zap.Strings("events", a.events),
		zap.Duration("elapsed", time.Since(a.started)),
	)
}

var (
	HitCounterToken = container.MustRegister(container.Type[*HitCounter](),
		func(context.Context) (*HitCounter, error) {
			return &HitCounter{}, nil
		},
		container.Root(),
	)

	AuditToken = container.MustRegister(container.Type[*Audit](),
		func(ctx context.Context) (*Audit, error) {
			logger, err := container.Inject(ctx, logging.Token)
			if err != nil {
				return nil, err
			}
			req, err := container.Inject(ctx, routing.RequestToken)
			if err != nil {
				return nil, err
			}
			return &Audit{
				logger:  logger,
				request: req.Method + " " + req.URL.Path,
				started: time.Now(),
			}, nil
		},
	)

	// Nobody registers this one; resolving it demonstrates the missing token
	// response.
	MailerToken = container.Named[*struct{}]("mailer")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx) // loads .env automatically
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := application.Boot(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := application.Config()
	r := application.Router()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		res.Success(map[string]any{"message": "Welcome to " + cfg.App.Name})
	})

	r.Prefix("/api/v1", func(api *routing.Router) {
		// GET /api/v1/hits
		api.Get("/hits", func(w http.ResponseWriter, r *http.Request) {
			request, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

			counter, err := gohttp.Resolve(request, HitCounterToken)
			if err != nil {
				res.ContainerError(err, cfg.App.Debug)
				return
			}
			audit, err := gohttp.Resolve(request, AuditToken)
			if err != nil {
				res.ContainerError(err, cfg.App.Debug)
				return
			}

			n := counter.Hit()
			audit.Record(fmt.Sprintf("hit #%d", n))
			res.Success(map[string]any{
				"hits":  n,
				"scope": request.Container().Name(),
			})
		})

		// GET /api/v1/mail
		api.Get("/mail", func(w http.ResponseWriter, r *http.Request) {
			request, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
			if _, err := gohttp.Resolve(request, MailerToken); err != nil {
				res.ContainerError(err, cfg.App.Debug)
				return
			}
			res.NoContent()
		})
	})

	if err := application.Run(ctx); err != nil {
		application.Logger().Error("server error", zap.Error(err))
		os.Exit(1)
	}
}
