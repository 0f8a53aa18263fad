package app

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/km-arc/silhouette/framework/container"
	"github.com/km-arc/silhouette/framework/facade"
	gohttp "github.com/km-arc/silhouette/framework/http"
	"github.com/km-arc/silhouette/framework/metrics"
	"github.com/km-arc/silhouette/framework/routing"
	"github.com/km-arc/silhouette/internal/database"
)

type binding struct {
	Type     string `json:"type"`
	Lifetime string `json:"lifetime"`
}

func (a *Application) routes(r *routing.Router) {
	r.Middleware(routing.EchoRequestID)

	r.Prefix("/db", func(db *routing.Router) {
		db.Post("/connections", a.openConnection)
		db.Get("/pool", a.poolStats)
	})
	r.Prefix("/debug", func(debug *routing.Router) {
		debug.Get("/bindings", a.listBindings)
		debug.Get("/bindings/{type}", a.showBinding)
		debug.Get("/metrics", a.resolutionMetrics)
		debug.Delete("/metrics", a.resetMetrics)
	})
}

// openConnection resolves a fresh transient connection, reports it and hands
// its slot back to the pool.
func (a *Application) openConnection(w http.ResponseWriter, _ *http.Request) {
	res := gohttp.NewResponse(w)
	conn, err := facade.Get[*database.Connection](a.guard)
	if err != nil {
		a.fail(res, err)
		return
	}
	defer conn.Close()

	res.Created(map[string]any{
		"id":      conn.ID,
		"pool_id": conn.Pool().ID,
	})
}

func (a *Application) poolStats(w http.ResponseWriter, _ *http.Request) {
	res := gohttp.NewResponse(w)
	pool, err := facade.Get[*database.Pool](a.guard)
	if err != nil {
		a.fail(res, err)
		return
	}
	res.Success(pool.Stats())
}

func (a *Application) listBindings(w http.ResponseWriter, _ *http.Request) {
	var out []binding
	_ = a.guard.Do(func(c *container.Container) error {
		for _, key := range c.Keys() {
			lt, _ := c.LifetimeOf(key)
			out = append(out, binding{Type: key.String(), Lifetime: lt.String()})
		}
		return nil
	})
	gohttp.NewResponse(w).Success(out)
}

func (a *Application) showBinding(w http.ResponseWriter, r *http.Request) {
	name := routing.Param(r, "type")
	var (
		out   binding
		found bool
	)
	_ = a.guard.Do(func(c *container.Container) error {
		for _, key := range c.Keys() {
			if key.String() != name {
				continue
			}
			lt, _ := c.LifetimeOf(key)
			out, found = binding{Type: name, Lifetime: lt.String()}, true
			break
		}
		return nil
	})

	res := gohttp.NewResponse(w)
	if !found {
		res.NotFound(fmt.Sprintf("no binding registered for [%s]", name))
		return
	}
	res.Success(out)
}

func (a *Application) resolutionMetrics(w http.ResponseWriter, _ *http.Request) {
	res := gohttp.NewResponse(w)
	m, err := facade.Get[*metrics.Resolutions](a.guard)
	if err != nil {
		a.fail(res, err)
		return
	}
	res.Success(m.Snapshot())
}

func (a *Application) resetMetrics(w http.ResponseWriter, _ *http.Request) {
	res := gohttp.NewResponse(w)
	m, err := facade.Get[*metrics.Resolutions](a.guard)
	if err != nil {
		a.fail(res, err)
		return
	}
	m.Reset()
	res.NoContent()
}

// fail maps a resolution error onto a JSON error response.
func (a *Application) fail(res *gohttp.Response, err error) {
	if logger, lerr := a.Logger(); lerr == nil {
		logger.WithError(err).Error("resolution failed")
	}
	if errors.Is(err, container.ErrUnbound) && !errors.Is(err, container.ErrFactoryFailed) {
		res.Unavailable(err.Error())
		return
	}
	res.ServerError(err.Error())
}
