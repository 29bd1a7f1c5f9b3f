package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("VMM_SPEC_PATH", "ci/labspec.json")
	t.Setenv("VMM_LOG_CONSOLE", "true")
	t.Setenv("VMM_SERVER_METRICS", "false")
	t.Setenv("VMM_REMOTE_HOST", "lab-vm")
	t.Setenv("VMM_REMOTE_PORT", "2222")
	t.Setenv("VMM_REMOTE_KNOWN_HOSTS", "/etc/vmmanager/known_hosts")
	t.Setenv("VMM_ARCHIVE_BUCKET", "lab-runs")
	t.Setenv("VMM_ARCHIVE_SECRET_KEY", "s3cr3t")
	t.Setenv("VMM_LOCK_TTL", "45m")

	cfg := Default()
	ApplyEnv(cfg)

	assert.Equal(t, "ci/labspec.json", cfg.SpecPath)
	assert.True(t, cfg.Log.Console)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, "lab-vm", cfg.Remote.Host)
	assert.Equal(t, 2222, cfg.Remote.Port)
	assert.Equal(t, "/etc/vmmanager/known_hosts", cfg.Remote.KnownHosts)
	assert.True(t, cfg.Archive.Enabled())
	assert.Equal(t, "s3cr3t", cfg.Archive.SecretKey)
	assert.Equal(t, 45*time.Minute, cfg.Lock.TTL)
}

func TestApplyEnv_InvalidValuesKeepCurrent(t *testing.T) {
	t.Setenv("VMM_LOG_BACKUPS", "many")
	t.Setenv("VMM_LOG_CONSOLE", "sometimes")
	t.Setenv("VMM_LOCK_TTL", "forever")

	cfg := Default()
	ApplyEnv(cfg)

	assert.Equal(t, 5, cfg.Log.Backups)
	assert.False(t, cfg.Log.Console)
	assert.Equal(t, 2*time.Hour, cfg.Lock.TTL)
}

func TestParseHelpers_Unset(t *testing.T) {
	assert.Equal(t, "x", parseString("VMM_TEST_UNSET_STRING", "x"))
	assert.Equal(t, 3, parseInt("VMM_TEST_UNSET_INT", 3))
	assert.True(t, parseBool("VMM_TEST_UNSET_BOOL", true))
	assert.Equal(t, time.Second, parseDuration("VMM_TEST_UNSET_DURATION", time.Second))
}
