package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/silhouette/framework/config"
	"github.com/km-arc/silhouette/framework/container"
	"github.com/km-arc/silhouette/framework/logging"
)

func TestNew_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithOutput(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	assert.Equal(t, log.WarnLevel, logger.GetLevel())
	logger.Info("dropped")
	logger.Warn("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logging.New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := logging.New(config.LogConfig{Level: "info", Format: "xml"})
	assert.EqualError(t, err, `unknown log format "xml"`)
}

func TestTraceResolutions(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	c := container.New()
	logging.TraceResolutions(c, logger)
	container.Instance(c, 42)
	container.MustResolve[int](c)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "resolved", entry["msg"])
	assert.Equal(t, "int", entry["type"])
}
