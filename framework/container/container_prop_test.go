package container_test

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/km-arc/silhouette/framework/container"
)

type counter struct {
	n int
}

func Test_TransientInvokesFactoryPerResolve(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("transient factory runs exactly once per resolve", prop.ForAll(
		func(resolves int) bool {
			c := container.New()
			calls := 0
			container.Bind(c, func(_ *container.Container) (*counter, error) {
				calls++
				return &counter{n: calls}, nil
			})

			for i := 1; i <= resolves; i++ {
				got, err := container.Resolve[*counter](c)
				if err != nil || got.n != i || calls != i {
					return false
				}
			}
			return calls == resolves
		},
		gen.IntRange(0, 64),
	))

	properties.TestingRun(t)
}

func Test_SingletonInvokesFactoryOnce(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("singleton factory runs once across any number of resolves", prop.ForAll(
		func(resolves int) bool {
			c := container.New()
			calls := 0
			container.Singleton(c, func(_ *container.Container) (*counter, error) {
				calls++
				return &counter{n: calls}, nil
			})

			first := container.MustResolve[*counter](c)
			for i := 1; i < resolves; i++ {
				if container.MustResolve[*counter](c) != first {
					return false
				}
			}
			return calls == 1
		},
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}

func Test_ReregistrationReplacesBehaviour(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("resolve always reflects the last registration", prop.ForAll(
		func(lifetimes []bool) bool {
			c := container.New()
			for round, singleton := range lifetimes {
				round := round
				factory := func(_ *container.Container) (*counter, error) {
					return &counter{n: round}, nil
				}
				if singleton {
					container.Singleton(c, factory)
				} else {
					container.Bind(c, factory)
				}

				// twice, so a stale cache from an earlier singleton would show
				for i := 0; i < 2; i++ {
					got, err := container.Resolve[*counter](c)
					if err != nil || got.n != round {
						return false
					}
				}
			}
			return c.Len() == min(len(lifetimes), 1)
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

func Test_SingletonRetriesAfterFailure(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("failed singleton builds are retried until one succeeds", prop.ForAll(
		func(failures int, resolves int) bool {
			c := container.New()
			calls := 0
			container.Singleton(c, func(_ *container.Container) (*counter, error) {
				calls++
				if calls <= failures {
					return nil, errors.New("not yet")
				}
				return &counter{n: calls}, nil
			})

			for i := 0; i < failures; i++ {
				if _, err := container.Resolve[*counter](c); !errors.Is(err, container.ErrFactoryFailed) {
					return false
				}
				if container.Resolved[*counter](c) {
					return false
				}
			}
			for i := 0; i < resolves; i++ {
				got, err := container.Resolve[*counter](c)
				if err != nil || got.n != failures+1 {
					return false
				}
			}
			return calls == failures+1
		},
		gen.IntRange(0, 8),
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}
