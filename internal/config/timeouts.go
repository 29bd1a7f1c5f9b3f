package config

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnv overlays VMM_* environment variables onto cfg.
// Unset or unparsable variables leave the current value in place.
//
// Environment Variables:
//   - VMM_CACHE_ROOT, VMM_SPEC_PATH, VMM_SHELL
//   - VMM_LOG_FILE, VMM_LOG_LEVEL, VMM_LOG_BACKUPS, VMM_LOG_CONSOLE
//   - VMM_SERVER_ADDRESS, VMM_SERVER_METRICS
//   - VMM_REMOTE_HOST, VMM_REMOTE_PORT, VMM_REMOTE_USER, VMM_REMOTE_KEY_FILE,
//     VMM_REMOTE_KNOWN_HOSTS
//   - VMM_ARCHIVE_ENDPOINT, VMM_ARCHIVE_REGION, VMM_ARCHIVE_BUCKET,
//     VMM_ARCHIVE_PREFIX, VMM_ARCHIVE_ACCESS_KEY, VMM_ARCHIVE_SECRET_KEY
//   - VMM_LOCK_REDIS_ADDR, VMM_LOCK_TTL
func ApplyEnv(cfg *Config) {
	cfg.CacheRoot = parseString(EnvPrefix+"CACHE_ROOT", cfg.CacheRoot)
	cfg.SpecPath = parseString(EnvPrefix+"SPEC_PATH", cfg.SpecPath)
	cfg.Shell = parseString(EnvPrefix+"SHELL", cfg.Shell)

	cfg.Log.File = parseString(EnvPrefix+"LOG_FILE", cfg.Log.File)
	cfg.Log.Level = parseString(EnvPrefix+"LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Backups = parseInt(EnvPrefix+"LOG_BACKUPS", cfg.Log.Backups)
	cfg.Log.Console = parseBool(EnvPrefix+"LOG_CONSOLE", cfg.Log.Console)

	cfg.Server.Address = parseString(EnvPrefix+"SERVER_ADDRESS", cfg.Server.Address)
	cfg.Server.Metrics = parseBool(EnvPrefix+"SERVER_METRICS", cfg.Server.Metrics)

	cfg.Remote.Host = parseString(EnvPrefix+"REMOTE_HOST", cfg.Remote.Host)
	cfg.Remote.Port = parseInt(EnvPrefix+"REMOTE_PORT", cfg.Remote.Port)
	cfg.Remote.User = parseString(EnvPrefix+"REMOTE_USER", cfg.Remote.User)
	cfg.Remote.KeyFile = parseString(EnvPrefix+"REMOTE_KEY_FILE", cfg.Remote.KeyFile)
	cfg.Remote.KnownHosts = parseString(EnvPrefix+"REMOTE_KNOWN_HOSTS", cfg.Remote.KnownHosts)

	cfg.Archive.Endpoint = parseString(EnvPrefix+"ARCHIVE_ENDPOINT", cfg.Archive.Endpoint)
	cfg.Archive.Region = parseString(EnvPrefix+"ARCHIVE_REGION", cfg.Archive.Region)
	cfg.Archive.Bucket = parseString(EnvPrefix+"ARCHIVE_BUCKET", cfg.Archive.Bucket)
	cfg.Archive.Prefix = parseString(EnvPrefix+"ARCHIVE_PREFIX", cfg.Archive.Prefix)
	cfg.Archive.AccessKey = parseString(EnvPrefix+"ARCHIVE_ACCESS_KEY", cfg.Archive.AccessKey)
	cfg.Archive.SecretKey = parseString(EnvPrefix+"ARCHIVE_SECRET_KEY", cfg.Archive.SecretKey)

	cfg.Lock.RedisAddr = parseString(EnvPrefix+"LOCK_REDIS_ADDR", cfg.Lock.RedisAddr)
	cfg.Lock.TTL = parseDuration(EnvPrefix+"LOCK_TTL", cfg.Lock.TTL)
}

// parseString returns the environment variable value, or defaultVal when unset.
func parseString(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}

// parseBool parses a boolean from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseBool(envVar string, defaultVal bool) bool {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}

	return b
}
