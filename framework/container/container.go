package container

import (
	"reflect"
	"sort"
)

// extender decorates a freshly built instance.
type extender func(instance any, c *Container) (any, error)

// ── Container ─────────────────────────────────────────────────────────────────

// Container maps types to bindings.
//
// It supports:
//   - Bind / Singleton / Instance (and the BindIf / SingletonIf variants)
//   - Resolve / MustResolve (generic)
//   - Extend (decorate resolved instances)
//   - Resolved event callbacks
//
// A Container is not safe for concurrent use. Share one across goroutines
// through a facade.Guard.
type Container struct {
	// type → binding
	bindings map[TypeKey]*binding

	// type → extender funcs
	extenders map[TypeKey][]extender

	// resolved callbacks: []func(key, instance)
	afterResolving []func(TypeKey, any)
}

// New creates an empty container.
func New() *Container {
	return &Container{
		bindings:  make(map[TypeKey]*binding),
		extenders: make(map[TypeKey][]extender),
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory for T: every Resolve invokes it afresh.
// Any previous binding for T is replaced.
//
//	container.Bind(c, func(c *container.Container) (*database.Connection, error) {
//	    pool, err := container.Resolve[*database.Pool](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return pool.Conn()
//	})
func Bind[T any](c *Container, factory Factory[T]) {
	c.set(KeyOf[T](), newBinding(LifetimeTransient, factory))
}

// Singleton registers a factory for T whose result is cached after the first
// successful resolution. Any previous binding for T, and its cached value, is
// discarded.
//
//	container.Singleton(c, func(c *container.Container) (*database.Pool, error) {
//	    return database.NewPool(cfg.DB)
//	})
func Singleton[T any](c *Container, factory Factory[T]) {
	c.set(KeyOf[T](), newBinding(LifetimeSingleton, factory))
}

// Instance registers a pre-built value as a singleton for T.
//
//	container.Instance(c, cfg)
func Instance[T any](c *Container, instance T) {
	b := newBinding(LifetimeSingleton, Value(instance))
	b.store(instance)
	c.set(KeyOf[T](), b)
}

// BindIf registers a transient binding only if T is not bound yet.
// It reports whether the binding was registered.
func BindIf[T any](c *Container, factory Factory[T]) bool {
	if Bound[T](c) {
		return false
	}
	Bind(c, factory)
	return true
}

// SingletonIf registers a singleton binding only if T is not bound yet.
// It reports whether the binding was registered.
func SingletonIf[T any](c *Container, factory Factory[T]) bool {
	if Bound[T](c) {
		return false
	}
	Singleton(c, factory)
	return true
}

// set installs b under key, replacing whatever was there.
func (c *Container) set(key TypeKey, b *binding) {
	c.bindings[key] = b
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates every instance of T built from now on. If T is a singleton
// that has already been built, the cached instance is decorated immediately;
// if that fails the error is returned and fn is not registered.
//
//	container.Extend(c, func(l *logrus.Logger, c *container.Container) (*logrus.Logger, error) {
//	    l.AddHook(hook)
//	    return l, nil
//	})
func Extend[T any](c *Container, fn func(instance T, c *Container) (T, error)) error {
	key := KeyOf[T]()
	ext := func(instance any, c *Container) (any, error) {
		typed, ok := instance.(T)
		if !ok && instance != nil {
			return nil, &TypeMismatchError{Key: key, Got: reflect.TypeOf(instance)}
		}
		return fn(typed, c)
	}

	// A rejected cached instance leaves both the cache and the extender list untouched.
	if b, ok := c.bindings[key]; ok {
		if inst, ok := b.cached(); ok {
			extended, err := ext(inst, c)
			if err != nil {
				return &FactoryError{Key: key, Err: err}
			}
			b.store(extended)
		}
	}
	c.extenders[key] = append(c.extenders[key], ext)
	return nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns an instance of T.
//
// Transient bindings invoke their factory on every call. Singleton bindings
// return the cached value once built; a failed first build leaves the cache
// empty, so the next call retries. The cached T is returned as is: pointer,
// map, chan, func and interface types hand out a shared instance, value types
// are copied.
//
//	pool, err := container.Resolve[*database.Pool](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	key := KeyOf[T]()

	instance, err := c.resolve(key)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{Key: key, Got: reflect.TypeOf(instance)}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics if T cannot be resolved.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// resolve is the erased resolver shared by Resolve and the provider registry.
func (c *Container) resolve(key TypeKey) (any, error) {
	b, ok := c.bindings[key]
	if !ok {
		return nil, &UnboundError{Key: key}
	}

	if b.load != nil {
		if err := b.load(c); err != nil {
			return nil, &FactoryError{Key: key, Err: err}
		}
		if c.bindings[key] == b {
			return nil, &UnboundError{Key: key}
		}
		return c.resolve(key)
	}

	if inst, ok := b.cached(); ok {
		c.fireAfterResolving(key, inst)
		return inst, nil
	}

	instance, err := c.build(key, b)
	if err != nil {
		return nil, err
	}

	// The factory may have rebound key; only cache into the binding still in place.
	if c.bindings[key] == b {
		b.store(instance)
	}

	c.fireAfterResolving(key, instance)
	return instance, nil
}

// build runs the factory and the extenders registered for key.
func (c *Container) build(key TypeKey, b *binding) (any, error) {
	instance, err := b.factory(c)
	if err != nil {
		return nil, &FactoryError{Key: key, Err: err}
	}
	for _, ext := range c.extenders[key] {
		instance, err = ext(instance, c)
		if err != nil {
			return nil, &FactoryError{Key: key, Err: err}
		}
	}
	return instance, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether T has a binding.
func Bound[T any](c *Container) bool {
	return c.Has(KeyOf[T]())
}

// Resolved reports whether T is a singleton whose value has been built.
func Resolved[T any](c *Container) bool {
	b, ok := c.bindings[KeyOf[T]()]
	if !ok {
		return false
	}
	_, ok = b.cached()
	return ok
}

// Forget removes the binding for T, its cached value and its extenders.
func Forget[T any](c *Container) {
	key := KeyOf[T]()
	delete(c.bindings, key)
	delete(c.extenders, key)
}

// Has reports whether key has a binding.
func (c *Container) Has(key TypeKey) bool {
	_, ok := c.bindings[key]
	return ok
}

// LifetimeOf returns the lifetime of the binding for key.
func (c *Container) LifetimeOf(key TypeKey) (Lifetime, bool) {
	b, ok := c.bindings[key]
	if !ok {
		return 0, false
	}
	return b.lifetime, true
}

// Flush resets the container: bindings, cached instances and extenders.
// AfterResolving callbacks survive.
func (c *Container) Flush() {
	c.bindings = make(map[TypeKey]*binding)
	c.extenders = make(map[TypeKey][]extender)
}

// Keys returns the bound type keys sorted by name (for debugging).
func (c *Container) Keys() []TypeKey {
	out := make([]TypeKey, 0, len(c.bindings))
	for k := range c.bindings {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Len returns the number of bindings.
func (c *Container) Len() int { return len(c.bindings) }

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after every successful resolution,
// including cache hits.
func (c *Container) AfterResolving(cb func(key TypeKey, instance any)) {
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(key TypeKey, instance any) {
	for _, cb := range c.afterResolving {
		cb(key, instance)
	}
}
