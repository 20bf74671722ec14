package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vsgo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Y4M)
	assert.Equal(t, 4, cfg.Lookahead)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
library_path: /opt/vs/lib/libvapoursynth-script.so
workers: 3
y4m: false
log_level: debug
metrics_addr: ":9100"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/vs/lib/libvapoursynth-script.so", cfg.LibraryPath)
	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.Y4M)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	// Not in the file.
	assert.Equal(t, 4, cfg.Lookahead)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "workers: -1\nlookahead: 0\nlog_level: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "lookahead")
	assert.Contains(t, err.Error(), "loud")

	_, err = LoadFromFile(writeConfig(t, "workers: [1, 2"))
	assert.Error(t, err)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
