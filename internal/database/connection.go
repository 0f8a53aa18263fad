package database

import "sync"

// Connection is a single handle taken from a Pool.
type Connection struct {
	ID string

	pool      *Pool
	closeOnce sync.Once
}

// Pool returns the pool the connection was taken from.
func (c *Connection) Pool() *Pool { return c.pool }

// Close returns the connection's slot to its pool. Closing twice is a no-op.
func (c *Connection) Close() error {
	c.closeOnce.Do(c.pool.release)
	return nil
}
