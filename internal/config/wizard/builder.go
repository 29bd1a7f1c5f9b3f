package wizard

import (
	"strconv"
	"strings"

	"github.com/vlabs/vmmanager/internal/config"
)

// newResult pre-fills the wizard with the defaults so pressing enter
// through every prompt yields the default configuration.
func newResult() *WizardResult {
	d := config.Default()
	return &WizardResult{
		CacheRoot:     d.CacheRoot,
		SpecPath:      d.SpecPath,
		Shell:         d.Shell,
		LogFile:       d.Log.File,
		LogLevel:      d.Log.Level,
		ServerAddress: d.Server.Address,
		EnableMetrics: d.Server.Metrics,
	}
}

// BuildConfig creates a Config struct from the wizard result.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := config.Default()
	cfg.CacheRoot = strings.TrimSpace(result.CacheRoot)
	cfg.SpecPath = strings.TrimSpace(result.SpecPath)
	cfg.Shell = result.Shell
	cfg.Log.File = strings.TrimSpace(result.LogFile)
	cfg.Log.Level = result.LogLevel
	cfg.Server.Address = strings.TrimSpace(result.ServerAddress)
	cfg.Server.Metrics = result.EnableMetrics

	if result.AdvancedOptions != nil {
		applyAdvancedOptions(cfg, result.AdvancedOptions)
	}
	return cfg
}

func applyAdvancedOptions(cfg *config.Config, opts *AdvancedOptions) {
	if host := strings.TrimSpace(opts.RemoteHost); host != "" {
		cfg.Remote.Host = host
		if port, err := strconv.Atoi(strings.TrimSpace(opts.RemotePort)); err == nil {
			cfg.Remote.Port = port
		}
		if user := strings.TrimSpace(opts.RemoteUser); user != "" {
			cfg.Remote.User = user
		}
		cfg.Remote.KeyFile = strings.TrimSpace(opts.RemoteKeyFile)
	}

	if bucket := strings.TrimSpace(opts.ArchiveBucket); bucket != "" {
		cfg.Archive.Bucket = bucket
		if region := strings.TrimSpace(opts.ArchiveRegion); region != "" {
			cfg.Archive.Region = region
		}
		cfg.Archive.Endpoint = strings.TrimSpace(opts.ArchiveEndpoint)
	}

	cfg.Lock.RedisAddr = strings.TrimSpace(opts.RedisAddr)
}
