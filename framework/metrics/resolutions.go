// Package metrics counts container resolutions with go-metrics.
//
// Counter names are "resolve/<type>" per resolved type plus "resolve/total".
package metrics

import (
	"strings"

	gometrics "github.com/rcrowley/go-metrics"

	"github.com/km-arc/silhouette/framework/container"
)

const (
	prefix    = "resolve/"
	totalName = prefix + "total"
)

// Resolutions records how often each type is resolved.
// Counters are atomic, so one Resolutions may observe several containers.
type Resolutions struct {
	registry gometrics.Registry
}

// New returns a Resolutions backed by a fresh go-metrics registry.
func New() *Resolutions {
	return &Resolutions{registry: gometrics.NewRegistry()}
}

// Observe hooks r onto every successful resolution of c.
func (r *Resolutions) Observe(c *container.Container) {
	c.AfterResolving(func(key container.TypeKey, _ any) {
		r.counter(name(key)).Inc(1)
		r.counter(totalName).Inc(1)
	})
}

// Count returns the number of resolutions recorded for key.
func (r *Resolutions) Count(key container.TypeKey) int64 {
	return r.counter(name(key)).Count()
}

// Total returns the number of resolutions recorded for all types.
func (r *Resolutions) Total() int64 {
	return r.counter(totalName).Count()
}

// Snapshot returns every counter by name.
func (r *Resolutions) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	r.registry.Each(func(n string, i interface{}) {
		if c, ok := i.(gometrics.Counter); ok {
			out[n] = c.Count()
		}
	})
	return out
}

// Reset zeroes every counter.
func (r *Resolutions) Reset() {
	r.registry.Each(func(_ string, i interface{}) {
		if c, ok := i.(gometrics.Counter); ok {
			c.Clear()
		}
	})
}

func (r *Resolutions) counter(n string) gometrics.Counter {
	return gometrics.GetOrRegisterCounter(n, r.registry)
}

// name keeps type names flat: '/' would read as a scope separator.
func name(key container.TypeKey) string {
	return prefix + strings.ReplaceAll(key.String(), "/", "_SLASH_")
}
