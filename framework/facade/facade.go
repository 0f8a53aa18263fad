package facade

import (
	"sync"

	"github.com/km-arc/silhouette/framework/container"
)

// global is created on first use and lives for the rest of the process.
var global = sync.OnceValue(func() *Guard {
	return NewGuard(container.New())
})

// Global returns the process-wide guard.
func Global() *Guard {
	return global()
}

// Bind registers a transient binding for T on the global container.
//
//	facade.Bind(func(c *container.Container) (*database.Connection, error) {
//	    pool, err := container.Resolve[*database.Pool](c) // not facade.Resolve
//	    if err != nil {
//	        return nil, err
//	    }
//	    return pool.Conn()
//	})
func Bind[T any](factory container.Factory[T]) {
	_ = Global().Do(func(c *container.Container) error {
		container.Bind(c, factory)
		return nil
	})
}

// Singleton registers a singleton binding for T on the global container.
func Singleton[T any](factory container.Factory[T]) {
	_ = Global().Do(func(c *container.Container) error {
		container.Singleton(c, factory)
		return nil
	})
}

// Instance registers a pre-built value for T on the global container.
func Instance[T any](instance T) {
	_ = Global().Do(func(c *container.Container) error {
		container.Instance(c, instance)
		return nil
	})
}

// BindIf registers a transient binding for T unless T is already bound.
func BindIf[T any](factory container.Factory[T]) bool {
	var ok bool
	_ = Global().Do(func(c *container.Container) error {
		ok = container.BindIf(c, factory)
		return nil
	})
	return ok
}

// SingletonIf registers a singleton binding for T unless T is already bound.
func SingletonIf[T any](factory container.Factory[T]) bool {
	var ok bool
	_ = Global().Do(func(c *container.Container) error {
		ok = container.SingletonIf(c, factory)
		return nil
	})
	return ok
}

// Resolve resolves T from the global container.
func Resolve[T any]() (T, error) {
	return Get[T](Global())
}

// MustResolve is like Resolve but panics if T cannot be resolved.
// The global guard is released before the panic propagates.
func MustResolve[T any]() T {
	v, err := Resolve[T]()
	if err != nil {
		panic(err)
	}
	return v
}

// Bound reports whether T is bound on the global container.
func Bound[T any]() bool {
	var ok bool
	_ = Global().Do(func(c *container.Container) error {
		ok = container.Bound[T](c)
		return nil
	})
	return ok
}

// Flush removes every binding from the global container.
func Flush() {
	Global().Flush()
}
