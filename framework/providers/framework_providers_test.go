package providers_test

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/silhouette/framework/config"
	"github.com/km-arc/silhouette/framework/container"
	"github.com/km-arc/silhouette/framework/metrics"
	"github.com/km-arc/silhouette/framework/providers"
	"github.com/km-arc/silhouette/framework/routing"
	"github.com/km-arc/silhouette/internal/database"
)

func boot(t *testing.T, cfg *config.Config) (*container.Container, *container.ProviderRegistry) {
	t.Helper()
	c := container.New()
	container.Instance(c, cfg)

	reg := container.NewProviderRegistry(c)
	for _, p := range []container.ServiceProvider{
		&providers.LoggingServiceProvider{},
		&providers.MetricsServiceProvider{},
		&providers.RoutingServiceProvider{},
		&providers.DatabaseServiceProvider{},
	} {
		require.NoError(t, reg.Register(p))
	}
	require.NoError(t, reg.Boot())
	return c, reg
}

func testConfig(poolSize int) *config.Config {
	return &config.Config{
		Log: config.LogConfig{Level: "error", Format: "text"},
		DB:  config.DBConfig{Driver: "memory", PoolSize: poolSize},
	}
}

func TestConfigServiceProvider(t *testing.T) {
	t.Setenv("APP_NAME", "FromProvider")

	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&providers.ConfigServiceProvider{}))

	cfg := container.MustResolve[*config.Config](c)
	assert.Equal(t, "FromProvider", cfg.App.Name)
	assert.Same(t, cfg, container.MustResolve[*config.Config](c))
}

func TestFrameworkProviders_Resolve(t *testing.T) {
	c, _ := boot(t, testConfig(4))

	logger := container.MustResolve[*log.Logger](c)
	assert.Equal(t, log.ErrorLevel, logger.GetLevel())
	assert.NotNil(t, container.MustResolve[*routing.Router](c))
}

func TestDatabaseServiceProvider_Deferred(t *testing.T) {
	c, reg := boot(t, testConfig(4))

	assert.Len(t, reg.Deferred(), 2)
	assert.False(t, container.Resolved[*database.Pool](c))

	a := container.MustResolve[*database.Connection](c)
	b := container.MustResolve[*database.Connection](c)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Same(t, a.Pool(), b.Pool())
	assert.Same(t, a.Pool(), container.MustResolve[*database.Pool](c))
	assert.Empty(t, reg.Deferred())
}

func TestDatabaseServiceProvider_BadConfig(t *testing.T) {
	c, _ := boot(t, testConfig(0))

	_, err := container.Resolve[*database.Connection](c)
	assert.ErrorIs(t, err, container.ErrFactoryFailed)

	var fe *container.FactoryError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, container.KeyOf[*database.Connection](), fe.Key)
}

func TestMetricsServiceProvider_Observes(t *testing.T) {
	c, _ := boot(t, testConfig(4))
	m := container.MustResolve[*metrics.Resolutions](c)

	container.MustResolve[*database.Connection](c)
	container.MustResolve[*database.Connection](c)

	assert.Equal(t, int64(2), m.Count(container.KeyOf[*database.Connection]()))
	assert.Equal(t, int64(2), m.Count(container.KeyOf[*database.Pool]()))
}
