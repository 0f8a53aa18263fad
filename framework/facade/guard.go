package facade

import (
	"sync"

	"github.com/km-arc/silhouette/framework/container"
)

// Guard serializes access to one container. Every operation holds the mutex
// for the duration of the call only and releases it on every exit path,
// panics included.
type Guard struct {
	mu sync.Mutex
	c  *container.Container
}

// NewGuard wraps c. c must not be used directly once wrapped.
func NewGuard(c *container.Container) *Guard {
	return &Guard{c: c}
}

// Do runs fn with exclusive access to the container and returns its error.
//
// fn, and any factory it triggers, must use the *container.Container it is
// handed for nested resolution. Calling back into this Guard (or the package
// level functions, for the global guard) from inside fn deadlocks.
//
//	err := g.Do(func(c *container.Container) error {
//	    container.Singleton(c, poolFactory)
//	    container.Bind(c, connFactory)
//	    return nil
//	})
func (g *Guard) Do(fn func(c *container.Container) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.c)
}

// Get resolves T through g.
func Get[T any](g *Guard) (T, error) {
	var (
		v   T
		err error
	)
	_ = g.Do(func(c *container.Container) error {
		v, err = container.Resolve[T](c)
		return err
	})
	return v, err
}

// Keys returns the bound type keys of the guarded container.
func (g *Guard) Keys() []container.TypeKey {
	var keys []container.TypeKey
	_ = g.Do(func(c *container.Container) error {
		keys = c.Keys()
		return nil
	})
	return keys
}

// Flush resets the guarded container.
func (g *Guard) Flush() {
	_ = g.Do(func(c *container.Container) error {
		c.Flush()
		return nil
	})
}
