package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDispatchesOnScheme(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		address string
		want    any
	}{
		{filepath.Join(dir, "plain"), &DiskvStore{}},
		{"file://" + filepath.Join(dir, "file"), &DiskvStore{}},
		{"sqlite://" + filepath.Join(dir, "tp.db"), &SQLiteStore{}},
		{"mem://open-test", &MemoryStore{}},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			s, err := Open(ctx, tt.address)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestOpenNamedMemoryIsShared(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, "mem://shared")
	require.NoError(t, err)
	b, err := Open(ctx, "mem://shared")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestOpenRejectsUnknown(t *testing.T) {
	_, err := Open(context.Background(), "ftp://host/x")
	assert.Error(t, err)
	_, err = Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, DefaultPath, cfg.Address())
	assert.Empty(t, cfg.Remote())
	assert.Empty(t, cfg.Format())
	assert.Empty(t, cfg.File())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigPathEnv, dir)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".timepouch.yaml"),
		[]byte("path: sqlite:///tmp/tp.db\nremote: nats://localhost:4222/sheets\n"), 0o644))
	t.Setenv("TIMEPOUCH_FORMAT", "csv")

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "sqlite:///tmp/tp.db", cfg.Address())
	assert.Equal(t, "nats://localhost:4222/sheets", cfg.Remote())
	assert.Equal(t, "csv", cfg.Format())
	assert.Equal(t, filepath.Join(dir, ".timepouch.yaml"), cfg.File())
}
