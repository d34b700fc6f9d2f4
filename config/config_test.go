package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"qrisk/meta"

	"github.com/stretchr/testify/require"
)

const testConfig = `
log:
  level: debug
game:
  world: worlds/duel.yaml
  seed: 42
  shared_basis: true
  poll_interval: 10ms
  bots: [2]
server:
  listen: ":8080"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qrisk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults without a file", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, "info", cfg.Log.Level)
		require.Equal(t, 10, cfg.Log.MaxSize)
		require.Equal(t, meta.POLL_INTERVAL, cfg.Game.PollInterval)
		require.Empty(t, cfg.Server.Listen)
	})

	t.Run("From file", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, testConfig))
		require.NoError(t, err)
		require.Equal(t, "debug", cfg.Log.Level)
		require.Equal(t, 3, cfg.Log.MaxBackups, "Defaults fill what the file leaves out")
		require.Equal(t, GameConfig{
			World:        "worlds/duel.yaml",
			Seed:         42,
			SharedBasis:  true,
			PollInterval: 10 * time.Millisecond,
			Bots:         []int{2},
		}, cfg.Game)
		require.Equal(t, ":8080", cfg.Server.Listen)
	})

	t.Run("Environment wins", func(t *testing.T) {
		t.Setenv("QRISK_LOG_LEVEL", "warn")
		t.Setenv("QRISK_SEED", "7")
		t.Setenv("QRISK_BOTS", "1,2")
		cfg, err := Load(writeConfig(t, testConfig))
		require.NoError(t, err)
		require.Equal(t, "warn", cfg.Log.Level)
		require.Equal(t, uint64(7), cfg.Game.Seed)
		require.Equal(t, []int{1, 2}, cfg.Game.Bots)
		require.Equal(t, "worlds/duel.yaml", cfg.Game.World)
	})

	t.Run("Bad environment", func(t *testing.T) {
		t.Setenv("QRISK_SEED", "many")
		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, testConfig)
	l := NewLoader(path)
	_, err := l.Load()
	require.NoError(t, err)

	changed := make(chan Config, 10)
	l.Watch(func(cfg Config) { changed <- cfg })
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			// A truncated file may be seen first.
			if cfg.Log.Level == "error" {
				return
			}
		case <-timeout:
			t.Fatal("no reload after the file changed")
		}
	}
}
