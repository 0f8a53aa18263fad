package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/silhouette/framework/facade"
	"github.com/km-arc/silhouette/internal/database"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("LOG_LEVEL", "panic")
	t.Cleanup(facade.Flush)

	root := newRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func TestDemo(t *testing.T) {
	t.Setenv("DB_POOL_SIZE", "5")
	require.NoError(t, runCLI(t, "demo", "--connections", "5"))

	pool, err := facade.Resolve[*database.Pool]()
	require.NoError(t, err)
	assert.Equal(t, 0, pool.Stats().Open)
}

func TestDemo_PoolExhausted(t *testing.T) {
	t.Setenv("DB_POOL_SIZE", "2")
	err := runCLI(t, "demo", "--connections", "3")
	assert.EqualError(t, err, "1 of 3 connections failed")
}

func TestDemo_InvalidCount(t *testing.T) {
	err := runCLI(t, "demo", "--connections", "0")
	assert.EqualError(t, err, "--connections must be positive, got 0")
}
