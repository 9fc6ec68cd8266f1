package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/mkvshrink/internal/config"
	"github.com/backmassage/mkvshrink/internal/term"
)

func TestNew_ConsoleOnly(t *testing.T) {
	term.Configure(config.ColorNever)
	var out, errOut bytes.Buffer
	l := New(&out, &errOut)

	l.Info("found %d", 3)
	l.Warn("careful")
	l.Error("broke")
	l.Debug("hidden")

	assert.Contains(t, out.String(), "[INFO] found 3")
	assert.Contains(t, out.String(), "[WARNING] careful")
	assert.NotContains(t, out.String(), "broke")
	assert.Contains(t, errOut.String(), "[ERROR] broke")
	assert.NotContains(t, out.String(), "hidden", "debug is off by default")
	require.NoError(t, l.Close())
}

func TestDebug_Verbose(t *testing.T) {
	term.Configure(config.ColorNever)
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "run.log")
	cfg.Verbose = true

	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	l.Debug("details %s", "here")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[DEBUG] details here")
}

func TestNewLogger_WithFile(t *testing.T) {
	term.Configure(config.ColorNever)
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(dir, "nested", "mkvshrink.log")

	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	l.Info("to file")
	l.Success("done")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	content := string(b)

	assert.True(t, strings.HasPrefix(content, "=== Video Processing Log ===\nStart Time: "))
	assert.Contains(t, content, "Run ID: "+l.RunID())
	assert.Contains(t, content, "[INFO] to file")
	assert.Contains(t, content, "[INFO] done", "success is an INFO line in the file")
}

func TestNewLogger_TruncatesPreviousRun(t *testing.T) {
	term.Configure(config.ColorNever)
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(cfg.LogFile, []byte("stale line from last run\n"), 0o644))

	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "stale line")
}

func TestNewLogger_UnwritablePath(t *testing.T) {
	cfg := config.DefaultConfig()
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.LogFile = filepath.Join(blocker, "run.log")

	_, err := NewLogger(&cfg)
	assert.Error(t, err)
}

func TestColoredConsoleKeepsFilePlain(t *testing.T) {
	term.Configure(config.ColorAlways)
	t.Cleanup(func() { term.Configure(config.ColorNever) })

	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "run.log")
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	var out bytes.Buffer
	l.out = &out

	l.Warn("colored")
	require.NoError(t, l.Close())

	assert.Contains(t, out.String(), term.Yellow)
	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "\033[")
}
