package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Lab cache
	CacheRoot string
	SpecPath  string
	Shell     string

	// Logging
	LogFile  string
	LogLevel string

	// HTTP API
	ServerAddress string
	EnableMetrics bool

	// Advanced options (only set in advanced mode)
	AdvancedOptions *AdvancedOptions
}

// AdvancedOptions holds the optional integrations.
type AdvancedOptions struct {
	// Remote probes
	RemoteHost    string
	RemotePort    string
	RemoteUser    string
	RemoteKeyFile string

	// Run report archive
	ArchiveBucket   string
	ArchiveRegion   string
	ArchiveEndpoint string

	// Distributed run locks
	RedisAddr string
}

// RunWizard runs the interactive configuration wizard.
// If advanced is true, the optional integrations are prompted as well.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, advanced bool) (*WizardResult, error) {
	result := newResult()

	if err := runLabCacheGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("lab cache: %w", err)
	}

	if err := runLoggingGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	if err := runServerGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	if advanced {
		advOpts := &AdvancedOptions{RemotePort: "22", RemoteUser: "root", ArchiveRegion: "us-east-1"}

		if err := runRemoteGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("remote probes: %w", err)
		}

		if err := runArchiveGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}

		if err := runLockGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("locks: %w", err)
		}

		result.AdvancedOptions = advOpts
	}

	return result, nil
}
