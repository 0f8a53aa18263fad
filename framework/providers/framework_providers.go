package providers

import (
	log "github.com/sirupsen/logrus"

	"github.com/km-arc/silhouette/framework/config"
	"github.com/km-arc/silhouette/framework/container"
	"github.com/km-arc/silhouette/framework/logging"
	"github.com/km-arc/silhouette/framework/metrics"
	"github.com/km-arc/silhouette/framework/routing"
	"github.com/km-arc/silhouette/internal/database"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env.
//
// Bound types:
//   - *config.Config (singleton)
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	container.Singleton(app, container.Func(func(_ *container.Container) *config.Config {
		return config.Load(envFiles...)
	}))
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the logrus logger from *config.Config.
//
// Bound types:
//   - *logrus.Logger (singleton)
//
// At debug level every resolution is logged once booted.
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	container.Singleton(app, func(c *container.Container) (*log.Logger, error) {
		cfg, err := container.Resolve[*config.Config](c)
		if err != nil {
			return nil, err
		}
		return logging.New(cfg.Log)
	})
}

func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	logger, err := container.Resolve[*log.Logger](app)
	if err != nil {
		return err
	}
	if logger.IsLevelEnabled(log.DebugLevel) {
		logging.TraceResolutions(app, logger)
	}
	return nil
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider counts resolutions.
//
// Bound types:
//   - *metrics.Resolutions (singleton)
type MetricsServiceProvider struct {
	container.BaseProvider
}

func (p *MetricsServiceProvider) Register(app *container.Container) {
	container.Singleton(app, container.Func(func(_ *container.Container) *metrics.Resolutions {
		return metrics.New()
	}))
}

func (p *MetricsServiceProvider) Boot(app *container.Container) error {
	m, err := container.Resolve[*metrics.Resolutions](app)
	if err != nil {
		return err
	}
	m.Observe(app)
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound types:
//   - *routing.Router (singleton)
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	container.Singleton(app, func(c *container.Container) (*routing.Router, error) {
		logger, err := container.Resolve[*log.Logger](c)
		if err != nil {
			return nil, err
		}
		return routing.New(logger), nil
	})
}

// ── DatabaseServiceProvider ───────────────────────────────────────────────────

// DatabaseServiceProvider is deferred: nothing is registered until a pool or
// connection is first resolved.
//
// Bound types:
//   - *database.Pool       (singleton, from config.DB)
//   - *database.Connection (transient, one per resolve, sharing the pool)
type DatabaseServiceProvider struct {
	container.BaseProvider
}

func (p *DatabaseServiceProvider) IsDeferred() bool { return true }

func (p *DatabaseServiceProvider) Provides() []container.TypeKey {
	return []container.TypeKey{
		container.KeyOf[*database.Pool](),
		container.KeyOf[*database.Connection](),
	}
}

func (p *DatabaseServiceProvider) Register(app *container.Container) {
	container.Singleton(app, func(c *container.Container) (*database.Pool, error) {
		cfg, err := container.Resolve[*config.Config](c)
		if err != nil {
			return nil, err
		}
		return database.NewPool(cfg.DB)
	})
	container.Bind(app, func(c *container.Container) (*database.Connection, error) {
		pool, err := container.Resolve[*database.Pool](c)
		if err != nil {
			return nil, err
		}
		return pool.Conn()
	})
}
