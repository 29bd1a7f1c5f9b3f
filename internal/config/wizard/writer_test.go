package wizard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlabs/vmmanager/internal/config"
)

func TestWriteConfig_MinimalOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "vmmanager.yaml")

	cfg := config.Default()
	cfg.CacheRoot = "/srv/labs"
	cfg.Log.Level = "info"

	require.NoError(t, WriteConfig(cfg, outputPath, false))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "# vmmanager configuration")
	assert.Contains(t, text, "Output mode: minimal")
	assert.Contains(t, text, "cache_root: /srv/labs")
	assert.Contains(t, text, "level: info")
	assert.NotContains(t, text, "spec_path")
	assert.NotContains(t, text, "server:")
	assert.NotContains(t, text, "remote:")
}

func TestWriteConfig_FullOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "vmmanager.yaml")

	cfg := config.Default()
	cfg.Archive.Bucket = "runs"
	cfg.Archive.SecretKey = "never-written"

	require.NoError(t, WriteConfig(cfg, outputPath, true))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "Output mode: full")
	assert.Contains(t, text, "spec_path: scripts/labspec.json")
	assert.NotContains(t, text, "Note: Only values")
	assert.NotContains(t, text, "never-written")
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	for _, full := range []bool{false, true} {
		outputPath := filepath.Join(t.TempDir(), "vmmanager.yaml")

		cfg := config.Default()
		cfg.Shell = "/bin/sh"
		cfg.Server.Metrics = false
		cfg.Remote = config.RemoteConfig{Host: "vm", Port: 2222, User: "lab", KeyFile: "/k"}
		cfg.Lock.TTL = 15 * time.Minute

		require.NoError(t, WriteConfig(cfg, outputPath, full))

		loaded, err := config.LoadFile(outputPath)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded, "full=%v", full)
	}
}

func TestWriteConfig_BadPath(t *testing.T) {
	err := WriteConfig(config.Default(), filepath.Join(t.TempDir(), "missing", "x.yaml"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write file")
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists.yaml")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	assert.True(t, FileExists(path))
}

func TestConfirmOverwrite_UsesInjectedPrompt(t *testing.T) {
	orig := confirmOverwrite
	defer func() { confirmOverwrite = orig }()

	var asked string
	confirmOverwrite = func(path string) (bool, error) {
		asked = path
		return true, nil
	}

	ok, err := ConfirmOverwrite("vmmanager.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "vmmanager.yaml", asked)
}
