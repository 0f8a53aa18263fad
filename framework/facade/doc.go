// Package facade exposes a process-wide service container.
//
// The global container is created lazily on first use and guarded by a
// single mutex: Bind, Singleton, Resolve and friends each run as one critical
// section, so goroutines can register and resolve concurrently without ever
// observing a half-updated binding table.
//
//	// will always use the same pool
//	facade.Singleton(func(c *container.Container) (*database.Pool, error) {
//	    return database.NewPool(cfg.DB)
//	})
//
//	// will resolve a new connection each time
//	facade.Bind(func(c *container.Container) (*database.Connection, error) {
//	    pool, err := container.Resolve[*database.Pool](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return pool.Conn()
//	})
//
//	// somewhere else in your app...
//	conn, err := facade.Resolve[*database.Connection]()
//
// Factories run while the guard is held. They receive the underlying
// *container.Container and must resolve nested dependencies through it:
// calling facade.Resolve from inside a factory deadlocks. The same applies
// to a factory that blocks forever, which stalls every other caller.
//
// Guard is also usable on its own to share any container between goroutines.
package facade
