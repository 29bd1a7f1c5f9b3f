package wizard

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// runLabCacheGroup prompts for where lab repositories live and how steps run.
func runLabCacheGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cache Root").
				Description("Directory holding one working copy per lab repository").
				Value(&result.CacheRoot).
				Validate(validateAbsPath),
			huh.NewInput().
				Title("Lab Spec Path").
				Description("Lab specification path inside each repository").
				Value(&result.SpecPath).
				Validate(validateRequired),
			huh.NewSelect[string]().
				Title("Shell").
				Description("Shell used for installer and build step commands").
				Options(ShellOptions...).
				Value(&result.Shell),
		).Title("Lab Cache"),
	).RunWithContext(ctx)
}

// runLoggingGroup prompts for the log file and level.
func runLoggingGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Log File").
				Description("Rotated at midnight, 5 backups kept").
				Value(&result.LogFile).
				Validate(validateAbsPath),
			huh.NewSelect[string]().
				Title("Log Level").
				Options(LogLevelsToOptions()...).
				Value(&result.LogLevel),
		).Title("Logging"),
	).RunWithContext(ctx)
}

// runServerGroup prompts for the HTTP API listener.
func runServerGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen Address").
				Description("Address of the vmmanager HTTP API").
				Value(&result.ServerAddress).
				Validate(validateAddress),
			huh.NewConfirm().
				Title("Expose /metrics?").
				Value(&result.EnableMetrics),
		).Title("HTTP API"),
	).RunWithContext(ctx)
}

// runRemoteGroup prompts for the SSH target of health probes.
func runRemoteGroup(ctx context.Context, opts *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Remote Host (Optional)").
				Description("Run health probes on this VM over SSH. Leave empty for local probes.").
				Value(&opts.RemoteHost),
			huh.NewInput().
				Title("SSH Port").
				Value(&opts.RemotePort).
				Validate(validatePort),
			huh.NewInput().
				Title("SSH User").
				Value(&opts.RemoteUser),
			huh.NewInput().
				Title("Private Key File").
				Placeholder("/root/.ssh/id_ed25519").
				Value(&opts.RemoteKeyFile),
		).Title("Remote Probes"),
	).RunWithContext(ctx)
}

// runArchiveGroup prompts for the S3 bucket receiving run reports.
func runArchiveGroup(ctx context.Context, opts *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Report Bucket (Optional)").
				Description("Upload a JSON report for every run. Credentials come from VMM_ARCHIVE_ACCESS_KEY and VMM_ARCHIVE_SECRET_KEY.").
				Value(&opts.ArchiveBucket),
			huh.NewInput().
				Title("Region").
				Value(&opts.ArchiveRegion),
			huh.NewInput().
				Title("Endpoint (Optional)").
				Description("For S3-compatible storage; leave empty for AWS").
				Value(&opts.ArchiveEndpoint),
		).Title("Run Report Archive"),
	).RunWithContext(ctx)
}

// runLockGroup prompts for the redis instance shared by several API servers.
func runLockGroup(ctx context.Context, opts *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Redis Address (Optional)").
				Description("Share per-lab run locks between servers. Leave empty for in-process locks.").
				Placeholder("127.0.0.1:6379").
				Value(&opts.RedisAddr),
		).Title("Run Locks"),
	).RunWithContext(ctx)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errPathRequired
	}
	return nil
}

func validateAbsPath(s string) error {
	if err := validateRequired(s); err != nil {
		return err
	}
	if !filepath.IsAbs(strings.TrimSpace(s)) {
		return errPathNotAbsolute
	}
	return nil
}

func validateAddress(s string) error {
	_, port, err := net.SplitHostPort(strings.TrimSpace(s))
	if err != nil {
		return errAddressInvalid
	}
	if validatePort(port) != nil {
		return errAddressInvalid
	}
	return nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < 1 || p > 65535 {
		return errPortInvalid
	}
	return nil
}
