package actionrunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/go-logr/logr"
)

// Payload keys handed over by the pipeline.
const (
	KeyInstaller  = "installer"
	KeyBuildSteps = "build_steps"
)

// Payload carries one step set, keyed by KeyInstaller or KeyBuildSteps.
type Payload map[string]any

// Request is a single invocation of the Action Runner.
type Request struct {
	// WorkDir is the lab's working copy.
	WorkDir string
	Payload Payload
}

// Runner executes lab step sets.
type Runner interface {
	RunInstallSource(ctx context.Context, req Request) error
	RunBuildSteps(ctx context.Context, req Request) error
}

// StepError reports the step that failed.
type StepError struct {
	Index    int
	Command  string
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d %q failed (exit code %d): %v", e.Index+1, e.Command, e.ExitCode, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ShellRunner runs step command lines through a shell.
type ShellRunner struct {
	shell  string
	output io.Writer
	log    logr.Logger
}

// NewShellRunner creates a ShellRunner using shell (e.g. /bin/bash).
// Step output is appended to output.
func NewShellRunner(shell string, output io.Writer, log logr.Logger) *ShellRunner {
	if output == nil {
		output = io.Discard
	}
	return &ShellRunner{shell: shell, output: output, log: log.WithName("actionrunner")}
}

// RunInstallSource runs the installer commands in order.
func (r *ShellRunner) RunInstallSource(ctx context.Context, req Request) error {
	spec, ok := req.Payload[KeyInstaller]
	if !ok {
		return fmt.Errorf("payload has no %q key", KeyInstaller)
	}
	cmds, err := InstallerCommands(spec)
	if err != nil {
		return err
	}
	return r.runAll(ctx, KeyInstaller, req.WorkDir, cmds)
}

// RunBuildSteps runs the build commands in order.
func (r *ShellRunner) RunBuildSteps(ctx context.Context, req Request) error {
	spec, ok := req.Payload[KeyBuildSteps]
	if !ok {
		return fmt.Errorf("payload has no %q key", KeyBuildSteps)
	}
	cmds, err := BuildCommands(spec)
	if err != nil {
		return err
	}
	return r.runAll(ctx, KeyBuildSteps, req.WorkDir, cmds)
}

func (r *ShellRunner) runAll(ctx context.Context, set, dir string, cmds []string) error {
	log := r.log.WithValues("steps", set, "dir", dir)
	log.Info("Running steps", "count", len(cmds))

	for i, line := range cmds {
		if strings.TrimSpace(line) == "" {
			continue
		}
		log.Info("Command executed: "+line, "step", i+1)

		// #nosec G204 - step commands come from the lab specification by design
		cmd := exec.CommandContext(ctx, r.shell, "-c", line)
		cmd.Dir = dir
		cmd.Stdout = r.output
		cmd.Stderr = r.output

		if err := cmd.Run(); err != nil {
			serr := &StepError{Index: i, Command: line, ExitCode: exitCode(err), Err: err}
			log.Error(err, "Step failed", "step", i+1, "exitCode", serr.ExitCode)
			return serr
		}
	}
	return nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
