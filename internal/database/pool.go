// Package database is an in-memory stand-in for a connection pool, used to
// demonstrate singleton and transient bindings working together.
package database

import (
	"sync"

	uuid "github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"

	"github.com/km-arc/silhouette/framework/config"
)

// ErrPoolExhausted is returned by Conn when every slot is taken.
var ErrPoolExhausted = errors.New("database: pool exhausted")

// Pool hands out at most Size open connections.
type Pool struct {
	ID     string
	Driver string
	Size   int

	mu   sync.Mutex
	open int
}

// Stats is a point-in-time view of a pool.
type Stats struct {
	ID     string `json:"id"`
	Driver string `json:"driver"`
	Size   int    `json:"size"`
	Open   int    `json:"open"`
}

// NewPool validates cfg and creates a pool.
func NewPool(cfg config.DBConfig) (*Pool, error) {
	if cfg.PoolSize <= 0 {
		return nil, errors.Errorf("database: pool size must be positive, got %d", cfg.PoolSize)
	}
	switch cfg.Driver {
	case "memory":
	default:
		return nil, errors.Errorf("database: unsupported driver %q", cfg.Driver)
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	return &Pool{ID: id, Driver: cfg.Driver, Size: cfg.PoolSize}, nil
}

// Conn opens a new connection.
func (p *Pool) Conn() (*Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open >= p.Size {
		return nil, ErrPoolExhausted
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	p.open++
	return &Connection{ID: id, pool: p}, nil
}

// Stats returns the pool's current usage.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{ID: p.ID, Driver: p.Driver, Size: p.Size, Open: p.open}
}

func (p *Pool) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open > 0 {
		p.open--
	}
}

func newID() (string, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return "", errors.Wrap(err, "database: generate id")
	}
	return u.String(), nil
}
