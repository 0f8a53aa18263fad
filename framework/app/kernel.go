package app

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/km-arc/silhouette/framework/config"
	"github.com/km-arc/silhouette/framework/container"
	"github.com/km-arc/silhouette/framework/facade"
	"github.com/km-arc/silhouette/framework/providers"
	"github.com/km-arc/silhouette/framework/routing"
)

// Version of the application kernel.
const Version = "0.1.0"

const shutdownTimeout = 5 * time.Second

// Application is the top-level application: a guarded container plus the
// provider registry that fills it. Every access to the container goes through
// the guard, so handlers on many goroutines can resolve concurrently.
type Application struct {
	guard     *facade.Guard
	providers *container.ProviderRegistry
}

// New creates the application and registers the framework providers.
// Nothing is built until Boot.
func New(envFiles ...string) *Application {
	c := container.New()
	a := &Application{
		guard:     facade.NewGuard(c),
		providers: container.NewProviderRegistry(c),
	}

	// Register framework core providers
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: envFiles},
		&providers.LoggingServiceProvider{},
		&providers.MetricsServiceProvider{},
		&providers.RoutingServiceProvider{},
		&providers.DatabaseServiceProvider{},
	} {
		// registration before boot cannot fail
		_ = a.Register(p)
	}
	return a
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.guard.Do(func(_ *container.Container) error {
		return a.providers.Register(provider)
	})
}

// Boot runs the Boot() phase on all providers and mounts the routes.
// Calling it again is a no-op.
func (a *Application) Boot() error {
	return a.guard.Do(func(c *container.Container) error {
		if a.providers.Booted() {
			return nil
		}
		if err := a.providers.Boot(); err != nil {
			return err
		}
		router, err := container.Resolve[*routing.Router](c)
		if err != nil {
			return errors.Wrap(err, "resolve router")
		}
		a.routes(router)
		return nil
	})
}

// Guard returns the guard around the application's container.
func (a *Application) Guard() *facade.Guard { return a.guard }

// Config resolves *config.Config from the container.
func (a *Application) Config() (*config.Config, error) {
	return facade.Get[*config.Config](a.guard)
}

// Logger resolves the application logger.
func (a *Application) Logger() (*log.Logger, error) {
	return facade.Get[*log.Logger](a.guard)
}

// Handler boots the application (if needed) and returns its HTTP handler.
func (a *Application) Handler() (http.Handler, error) {
	if err := a.Boot(); err != nil {
		return nil, err
	}
	return facade.Get[*routing.Router](a.guard)
}

// Run serves HTTP on APP_PORT until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return errors.Wrap(err, "boot")
	}
	cfg, err := a.Config()
	if err != nil {
		return err
	}
	logger, err := a.Logger()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	return serve(ctx, srv, ln, logger.WithFields(log.Fields{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	}))
}

// serve runs srv on an already bound listener until ctx is cancelled.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger log.FieldLogger) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	logger.WithField("addr", ln.Addr().String()).Info("listening")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(sctx), "shutdown")
	}
}
