package config

import "time"

// Config is the full vmmanager configuration.
type Config struct {
	// CacheRoot holds one working copy per lab repository.
	CacheRoot string `yaml:"cache_root"`
	// SpecPath is the lab specification path relative to a working copy.
	SpecPath string `yaml:"spec_path"`
	// Shell runs installer and build step commands.
	Shell string `yaml:"shell"`

	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Remote  RemoteConfig  `yaml:"remote"`
	Archive ArchiveConfig `yaml:"archive"`
	Lock    LockConfig    `yaml:"lock"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	File    string `yaml:"file"`
	Level   string `yaml:"level"`
	Backups int    `yaml:"backups"`
	Console bool   `yaml:"console"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address string `yaml:"address"`
	Metrics bool   `yaml:"metrics"`
}

// RemoteConfig points health probes at a remote VM over SSH.
// Probes run locally when Host is empty.
type RemoteConfig struct {
	Host    string `yaml:"host,omitempty"`
	Port    int    `yaml:"port,omitempty"`
	User    string `yaml:"user,omitempty"`
	KeyFile string `yaml:"key_file,omitempty"`
	// KnownHosts is an OpenSSH known_hosts file used to verify the host
	// key. Host keys are not verified when it is empty.
	KnownHosts string `yaml:"known_hosts,omitempty"`
}

// Enabled reports whether probes should run over SSH.
func (r RemoteConfig) Enabled() bool {
	return r.Host != ""
}

// ArchiveConfig configures the S3-compatible run report archive.
// Reports are not archived when Bucket is empty.
type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// Enabled reports whether run reports should be uploaded.
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// LockConfig selects the per-lab run lock backend.
// An empty RedisAddr keeps locks in process memory.
type LockConfig struct {
	RedisAddr string        `yaml:"redis_addr,omitempty"`
	TTL       time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		CacheRoot: DefaultCacheRoot,
		SpecPath:  DefaultSpecPath,
		Shell:     DefaultShell,
		Log: LogConfig{
			File:    DefaultLogFile,
			Level:   "debug",
			Backups: 5,
		},
		Server: ServerConfig{
			Address: ":8089",
			Metrics: true,
		},
		Remote: RemoteConfig{
			Port: 22,
			User: "root",
		},
		Archive: ArchiveConfig{
			Region: "us-east-1",
			Prefix: "runs",
		},
		Lock: LockConfig{
			TTL: 2 * time.Hour,
		},
	}
}
