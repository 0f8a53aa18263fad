package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/km-arc/silhouette/framework/app"
	"github.com/km-arc/silhouette/framework/config"
	"github.com/km-arc/silhouette/framework/container"
	"github.com/km-arc/silhouette/framework/facade"
	"github.com/km-arc/silhouette/framework/logging"
	"github.com/km-arc/silhouette/internal/database"
)

type cli struct {
	envFiles    []string
	connections int
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "silhouette",
		Short:         "silhouette is a service container demo application",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", nil, "dotenv file(s) to load, default .env")

	root.AddCommand(c.makeServeCmd())
	root.AddCommand(c.makeDemoCmd())
	return root
}

func (c *cli) makeServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Boot the application and serve HTTP on APP_PORT",
		RunE:  c.serve,
	}
}

func (c *cli) serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.New(c.envFiles...).Run(ctx)
}

func (c *cli) makeDemoCmd() *cobra.Command {
	r := &cobra.Command{
		Use:   "demo",
		Short: "Open connections concurrently through the global container",
		RunE:  c.demo,
	}
	r.Flags().IntVar(&c.connections, "connections", 3, "number of connections to open")
	return r
}

// demo wires a pool singleton and a transient connection through the global
// facade, then resolves connections from several goroutines at once.
func (c *cli) demo(_ *cobra.Command, _ []string) error {
	if c.connections <= 0 {
		return errors.Errorf("--connections must be positive, got %d", c.connections)
	}

	cfg := config.Load(c.envFiles...)
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	facade.Instance(cfg)
	facade.Singleton(func(c *container.Container) (*database.Pool, error) {
		cfg, err := container.Resolve[*config.Config](c)
		if err != nil {
			return nil, err
		}
		return database.NewPool(cfg.DB)
	})
	facade.Bind(func(c *container.Container) (*database.Connection, error) {
		pool, err := container.Resolve[*database.Pool](c)
		if err != nil {
			return nil, err
		}
		return pool.Conn()
	})

	conns := make([]*database.Connection, c.connections)
	errs := make([]error, c.connections)
	var wg sync.WaitGroup
	for i := range conns {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conns[i], errs[i] = facade.Resolve[*database.Connection]()
		}(i)
	}
	wg.Wait()

	var failed int
	for i, conn := range conns {
		if errs[i] != nil {
			failed++
			logger.WithError(errs[i]).WithField("n", i).Warn("connection failed")
			continue
		}
		logger.WithFields(log.Fields{
			"n":    i,
			"conn": conn.ID,
			"pool": conn.Pool().ID,
		}).Info("connection opened")
	}

	pool, err := facade.Resolve[*database.Pool]()
	if err != nil {
		return err
	}
	logger.WithFields(log.Fields{
		"pool":   pool.ID,
		"open":   pool.Stats().Open,
		"size":   pool.Size,
		"failed": failed,
	}).Info("pool shared by all connections")

	for _, conn := range conns {
		if conn != nil {
			_ = conn.Close()
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d connections failed", failed, c.connections)
	}
	return nil
}

