package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlagSet(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_PATH=from-file.db\nLOG_LEVEL=warn\n"), 0o600))
	t.Setenv("QUIZ_LOG_LEVEL", "debug")

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--addr", ":9999"}))

	cfg, err := Load(fs, dir)
	require.NoError(t, err)

	assert.Equal(t, "from-file.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel, "environment overrides the .env file")
	assert.Equal(t, ":9999", cfg.Addr, "explicit flags override everything")
}

func TestLoadRejectsEmptyDBPath(t *testing.T) {
	t.Setenv("QUIZ_DB_PATH", " ")

	_, err := Load(nil, t.TempDir())
	assert.Error(t, err)
}
