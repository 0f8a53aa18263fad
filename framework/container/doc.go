// Package container provides a type-keyed service container and a Service
// Provider system for Go.
//
// # Overview
//
// The container maps a requested type to a factory that produces (or reuses)
// a value of that type. It supports transient bindings, singletons, pre-built
// instances and extension (decoration). There is no constructor auto-wiring:
// factories are explicit functions that receive the container and resolve
// their own dependencies from it.
//
// Go methods cannot take type parameters, so the API is a set of generic
// functions taking the *Container first.
//
// # Bindings
//
//	// Transient: new instance every Resolve()
//	container.Bind(c, func(c *container.Container) (*Foo, error) { return &Foo{}, nil })
//
//	// Singleton: created once, lazily, then reused
//	container.Singleton(c, func(c *container.Container) (*database.Pool, error) {
//	    return database.NewPool(cfg.DB)
//	})
//
//	// Infallible constructors
//	container.Bind(c, container.Func(func(c *container.Container) *Clock { return &Clock{} }))
//
//	// Pre-built value
//	container.Instance(c, cfg)
//
// Registering a type again replaces the previous binding (and drops any
// cached singleton value). BindIf and SingletonIf only register when the type
// is not bound yet.
//
// # Resolving
//
//	pool, err := container.Resolve[*database.Pool](c)
//	switch {
//	case errors.Is(err, container.ErrUnbound):
//	    // nothing registered for *database.Pool
//	case errors.Is(err, container.ErrFactoryFailed):
//	    // the factory returned an error; errors.Unwrap gives it back
//	}
//
// A singleton whose first build fails stays empty: the next Resolve retries.
// Resolve returns the cached value itself, so bind singletons with mutable
// state as pointer types to share one instance.
//
// A factory for T must not resolve T, directly or through other factories.
// Cycles are not detected and end in stack exhaustion.
//
// # Extend / Decorate
//
//	container.Extend(c, func(l *logrus.Logger, c *container.Container) (*logrus.Logger, error) {
//	    l.SetLevel(logrus.DebugLevel)
//	    return l, nil
//	})
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    container.Singleton(app, mailerFactory)
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) error {
//	    // safe to resolve other bindings here
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool    { return true }
//	func (p *HeavyProvider) Provides() []container.TypeKey {
//	    return []container.TypeKey{container.KeyOf[*Heavy]()}
//	}
//	func (p *HeavyProvider) Register(app *container.Container) {
//	    container.Singleton(app, heavySetup) // only registered on first Resolve[*Heavy]
//	}
//
// # Concurrency
//
// A Container is not safe for concurrent use. The facade package wraps one
// behind a mutex for process-wide access.
package container
