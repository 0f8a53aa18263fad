package container

import "reflect"

// ── Type keys ─────────────────────────────────────────────────────────────────

// TypeKey identifies a runtime type. Two keys are equal iff they denote the
// same type; there is no subtyping, so a binding for *Pool is never found by a
// request for an interface *Pool implements.
type TypeKey struct {
	rt reflect.Type
}

// KeyOf returns the TypeKey for T. Interface types are supported.
//
//	key := container.KeyOf[*database.Pool]()
func KeyOf[T any]() TypeKey {
	return TypeKey{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// String returns the package-qualified type name, e.g. "*database.Pool".
func (k TypeKey) String() string {
	if k.rt == nil {
		return "<nil>"
	}
	return k.rt.String()
}

// ── Factories ─────────────────────────────────────────────────────────────────

// Factory builds a T, optionally resolving its own dependencies from c.
// A factory must not resolve T itself: there is no cycle detection.
type Factory[T any] func(c *Container) (T, error)

// Func adapts a constructor that cannot fail.
//
//	container.Bind(c, container.Func(func(c *container.Container) *Clock { return &Clock{} }))
func Func[T any](fn func(c *Container) T) Factory[T] {
	return func(c *Container) (T, error) {
		return fn(c), nil
	}
}

// Value adapts a pre-built value into a factory that always returns it.
func Value[T any](v T) Factory[T] {
	return func(_ *Container) (T, error) {
		return v, nil
	}
}

// ── Binding ───────────────────────────────────────────────────────────────────

// Lifetime is the reuse policy of a binding.
type Lifetime int

const (
	// LifetimeTransient bindings invoke their factory on every resolution.
	LifetimeTransient Lifetime = iota
	// LifetimeSingleton bindings invoke their factory once and cache the result.
	LifetimeSingleton
)

func (l Lifetime) String() string {
	switch l {
	case LifetimeTransient:
		return "transient"
	case LifetimeSingleton:
		return "singleton"
	}
	return "unknown"
}

// binding holds an erased factory plus, for singletons, the cache slot.
// A binding with a non-nil load is a deferred-provider placeholder.
type binding struct {
	lifetime Lifetime
	factory  func(c *Container) (any, error)
	load     func(c *Container) error

	resolved bool
	instance any
}

func newBinding[T any](lifetime Lifetime, f Factory[T]) *binding {
	return &binding{
		lifetime: lifetime,
		factory: func(c *Container) (any, error) {
			v, err := f(c)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// cached returns the singleton value if it has been built.
func (b *binding) cached() (any, bool) {
	if b.lifetime != LifetimeSingleton || !b.resolved {
		return nil, false
	}
	return b.instance, true
}

func (b *binding) store(instance any) {
	if b.lifetime != LifetimeSingleton {
		return
	}
	b.instance = instance
	b.resolved = true
}
