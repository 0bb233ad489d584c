package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/huna/internal/audit"
	"github.com/PolarWolf314/huna/internal/configs"
	"github.com/PolarWolf314/huna/internal/fileio"
	logger "github.com/PolarWolf314/huna/internal/logging"
)

const testPassword = "secret1"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := configs.DefaultConfig()
	return &Engine{
		IO:      fileio.New(cfg),
		Logger:  logger.Logger{},
		Audit:   &audit.Trail{Path: filepath.Join(t.TempDir(), "audit.jsonl")},
		Exclude: cfg.Walk.Exclude,
	}
}

func writeTestFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func readTestFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// cancelAfter is a context whose Err starts returning context.Canceled
// after it has been checked n times.
type cancelAfter struct {
	context.Context
	n int
}

func (c *cancelAfter) Err() error {
	if c.n <= 0 {
		return context.Canceled
	}
	c.n--
	return nil
}
