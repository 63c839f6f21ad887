package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "games/armory", cfg.Game.Dir)
	assert.Equal(t, "dungeon.db", cfg.Save.DB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, time.Second, cfg.Engine.FibonacciTimeout)
	assert.Equal(t, 80, cfg.Engine.Columns)
	assert.False(t, cfg.UI.Plain)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dungeon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
game:
  dir: /srv/games/keep
engine:
  fibonacci_timeout: 250ms
  columns: 40
log:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/srv/games/keep", cfg.Game.Dir)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.FibonacciTimeout)
	assert.Equal(t, 40, cfg.Engine.Columns)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dungeon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  columns: 40\n"), 0o644))
	t.Setenv("DUNGEON_ENGINE_COLUMNS", "60")
	t.Setenv("DUNGEON_METRICS_ADDR", ":9100")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Engine.Columns)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DUNGEON_ENGINE_COLUMNS", "60")
	fs := newFlags(t, "--columns", "30", "--plain", "--game", "other", "--fib-timeout", "2s")

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Engine.Columns)
	assert.True(t, cfg.UI.Plain)
	assert.Equal(t, "other", cfg.Game.Dir)
	assert.Equal(t, 2*time.Second, cfg.Engine.FibonacciTimeout)
}

func TestLoad_UnsetFlagsKeepEnv(t *testing.T) {
	t.Setenv("DUNGEON_SAVE_DB", "/tmp/saves.db")
	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/saves.db", cfg.Save.DB)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty game dir", func(c *Config) { c.Game.Dir = "" }},
		{"narrow columns", func(c *Config) { c.Engine.Columns = 1 }},
		{"zero timeout", func(c *Config) { c.Engine.FibonacciTimeout = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"tracing without endpoint", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.Endpoint = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("", nil)
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
