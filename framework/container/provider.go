package container

import "github.com/pkg/errors"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Every provider must implement at minimum Register().
// Boot() is called after ALL providers have been registered, making it safe
// to resolve other bindings inside Boot().
//
//	type DatabaseProvider struct{ container.BaseProvider }
//
//	func (p *DatabaseProvider) Register(app *container.Container) {
//	    container.Singleton(app, func(c *container.Container) (*database.Pool, error) {
//	        cfg, err := container.Resolve[*config.Config](c)
//	        if err != nil {
//	            return nil, err
//	        }
//	        return database.NewPool(cfg.DB)
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here; use Boot() for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	// Safe to resolve and use any binding here.
	Boot(app *Container) error

	// Provides returns the types this provider registers.
	// Used for deferred (lazy) provider loading.
	// Return nil / empty slice if the provider is always eager.
	Provides() []TypeKey

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() types is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
// Embed it in your provider and only override what you need.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(app *container.Container) { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []TypeKey     { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
//
// Like the Container it drives, a ProviderRegistry is not safe for
// concurrent use.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	deferred   map[TypeKey]ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
	loaded     map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[TypeKey]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
		loaded:     make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method (unless deferred).
// A provider registered after Boot() is booted immediately and its Boot error
// is returned.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, key := range provider.Provides() {
			r.deferred[key] = provider
		}
		// Intercept resolutions of deferred types
		r.interceptDeferred(provider)
		return nil
	}

	provider.Register(r.app)
	r.loaded[provider] = true
	r.eager = append(r.eager, provider)

	// If already booted, boot this provider immediately
	if r.booted {
		return bootProvider(r.app, provider)
	}
	return nil
}

// interceptDeferred installs a placeholder binding for each deferred type.
// The first resolution triggers real registration (+ boot, when booted) and
// then resolves against whatever the provider bound.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) {
	for _, key := range provider.Provides() {
		r.app.set(key, &binding{
			lifetime: LifetimeTransient,
			load: func(c *Container) error {
				return r.load(provider)
			},
		})
	}
}

func (r *ProviderRegistry) load(provider ServiceProvider) error {
	if r.loaded[provider] {
		return nil
	}
	r.loaded[provider] = true
	for _, key := range provider.Provides() {
		delete(r.deferred, key)
	}

	provider.Register(r.app)
	if !r.booted {
		return nil
	}
	if err := bootProvider(r.app, provider); err != nil {
		// Put the placeholders back so the next resolution registers and boots again.
		delete(r.loaded, provider)
		for _, key := range provider.Provides() {
			r.deferred[key] = provider
		}
		r.interceptDeferred(provider)
		return err
	}
	return nil
}

// Boot calls Boot() on all eager providers, stopping at the first error.
// Must be called after ALL providers have been registered.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := bootProvider(r.app, provider); err != nil {
			return err
		}
	}
	return nil
}

func bootProvider(app *Container, provider ServiceProvider) error {
	return errors.Wrapf(provider.Boot(app), "boot %T", provider)
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }

// Deferred returns the types whose providers have not been loaded yet.
func (r *ProviderRegistry) Deferred() []TypeKey {
	out := make([]TypeKey, 0, len(r.deferred))
	for k := range r.deferred {
		out = append(out, k)
	}
	return out
}
