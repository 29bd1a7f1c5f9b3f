// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-logr/logr"

	"github.com/vlabs/vmmanager/internal/actionrunner"
	"github.com/vlabs/vmmanager/internal/config"
	"github.com/vlabs/vmmanager/internal/gitcmd"
	"github.com/vlabs/vmmanager/internal/labspec"
	"github.com/vlabs/vmmanager/internal/labsync"
	"github.com/vlabs/vmmanager/internal/lock"
	"github.com/vlabs/vmmanager/internal/logging"
	"github.com/vlabs/vmmanager/internal/metrics"
	"github.com/vlabs/vmmanager/internal/platform/s3"
	"github.com/vlabs/vmmanager/internal/platform/ssh"
	"github.com/vlabs/vmmanager/internal/probe"
	"github.com/vlabs/vmmanager/internal/provisioning"
	"github.com/vlabs/vmmanager/internal/report"
)

// LabTester runs one lab test. Implemented by provisioning.Pipeline.
type LabTester interface {
	TestLab(ctx context.Context, src labsync.Source) provisioning.Result
}

// logSink is the process log. Implemented by logging.Sink.
type logSink interface {
	Logger() logr.Logger
	Output() io.Writer
	Close() error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads the configuration file, environment and defaults.
	loadConfig = config.Load

	// openLogSink opens the rotating log file.
	openLogSink = func(cfg config.LogConfig) (logSink, error) {
		return logging.New(logging.Config{
			File:    cfg.File,
			Level:   cfg.Level,
			Backups: cfg.Backups,
			Console: cfg.Console,
		})
	}

	// newArchiveStore connects to the report bucket, creating it if needed.
	newArchiveStore = func(ctx context.Context, cfg config.ArchiveConfig) (report.Store, error) {
		client, err := s3.NewClient(ctx, s3.Options{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return client, nil
	}

	// newLocker returns the run locker and a closer for its connection.
	newLocker = func(ctx context.Context, cfg config.LockConfig) (lock.Locker, io.Closer, error) {
		if cfg.RedisAddr == "" {
			return lock.NewMemoryLocker(), nil, nil
		}
		client, err := lock.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return lock.NewRedisLocker(client, cfg.TTL), client, nil
	}

	// newProbeExecutor runs probes locally or over SSH.
	newProbeExecutor = func(cfg config.RemoteConfig, log logr.Logger) (probe.Executor, error) {
		if !cfg.Enabled() {
			return probe.LocalExecutor{}, nil
		}
		// #nosec G304
		key, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH key: %w", err)
		}
		client, err := ssh.NewClient(&ssh.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			User:       cfg.User,
			PrivateKey:     key,
			KnownHostsFile: cfg.KnownHosts,
		}, log)
		if err != nil {
			return nil, err
		}
		return probe.RemoteExecutor{Runner: client}, nil
	}

	// newLabTester builds the lab test pipeline.
	newLabTester = func(rt *runtime, opts ...provisioning.Option) LabTester {
		return rt.pipeline(opts...)
	}
)

// runtime holds what every command builds from the configuration.
type runtime struct {
	cfg      *config.Config
	log      logr.Logger
	output   io.Writer
	recorder *metrics.Recorder
	archiver *report.Archiver
	locker   lock.Locker

	closers []io.Closer
}

// newRuntime loads the configuration at path and opens the log sink, the
// run locker and, when configured, the report archive. An unreachable
// archive is logged and skipped.
func newRuntime(ctx context.Context, path string) (*runtime, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	sink, err := openLogSink(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	rt := &runtime{
		cfg:      cfg,
		log:      sink.Logger(),
		output:   sink.Output(),
		recorder: metrics.NewRecorder(cfg.Server.Metrics),
		closers:  []io.Closer{sink},
	}

	locker, closer, err := newLocker(ctx, cfg.Lock)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.locker = locker
	if closer != nil {
		rt.closers = append(rt.closers, closer)
	}

	if cfg.Archive.Enabled() {
		store, err := newArchiveStore(ctx, cfg.Archive)
		if err != nil {
			rt.log.Error(err, "Run report archive unavailable", "bucket", cfg.Archive.Bucket)
		} else {
			rt.archiver = report.NewArchiver(store, cfg.Archive.Prefix, rt.log)
		}
	}

	return rt, nil
}

// pipeline wires the lab test pipeline. opts are applied after the
// runtime's own recorder and reporter.
func (rt *runtime) pipeline(opts ...provisioning.Option) *provisioning.Pipeline {
	git := gitcmd.NewRunner(rt.log)
	sync := labsync.New(rt.cfg.CacheRoot, git, rt.log, labsync.WithOutput(rt.output))
	specs := labspec.NewLoader(rt.cfg.CacheRoot, rt.cfg.SpecPath, rt.log)
	runner := actionrunner.NewShellRunner(rt.cfg.Shell, rt.output, rt.log)

	base := []provisioning.Option{provisioning.WithRecorder(rt.recorder)}
	if rt.archiver != nil {
		base = append(base, provisioning.WithReporter(rt.archiver))
	}
	return provisioning.NewPipeline(sync, specs, runner, rt.log, slices.Concat(base, opts)...)
}

// prober builds the probe runner for the configured host.
func (rt *runtime) prober() (*probe.Prober, error) {
	exec, err := newProbeExecutor(rt.cfg.Remote, rt.log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up probes: %w", err)
	}
	return probe.New(exec, rt.log, probe.WithRecorder(rt.recorder)), nil
}

// Close releases the runtime in reverse order of acquisition.
func (rt *runtime) Close() error {
	var first error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
