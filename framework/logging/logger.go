// Package logging builds the application's logrus logger from configuration.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/km-arc/silhouette/framework/config"
	"github.com/km-arc/silhouette/framework/container"
)

// New returns a logger writing to stderr with the level and format from cfg.
func New(cfg config.LogConfig) (*log.Logger, error) {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(cfg config.LogConfig, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", cfg.Level)
	}

	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, errors.Errorf("unknown log format %q", cfg.Format)
	}
	return logger, nil
}

// TraceResolutions logs every successful resolution on c at debug level.
func TraceResolutions(c *container.Container, logger log.FieldLogger) {
	c.AfterResolving(func(key container.TypeKey, _ any) {
		logger.WithField("type", key.String()).Debug("resolved")
	})
}
