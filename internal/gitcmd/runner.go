// Package gitcmd runs git as an external process.
//
// Commands are always passed to git as argument vectors, never through a
// shell, and only a fixed set of subcommands is accepted.
package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/logr"
)

// Result holds the captured output of a git invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Options configures a single git invocation.
type Options struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Output additionally receives stdout and stderr as they are written.
	// The lab pipeline points this at the log file.
	Output io.Writer
}

// cancelGrace is how long git gets to clean up after SIGTERM before it is killed.
const cancelGrace = 5 * time.Second

// Runner executes git commands and logs each command line before it runs.
type Runner struct {
	log    logr.Logger
	binary string
}

// NewRunner creates a Runner that invokes the git binary found on PATH.
func NewRunner(log logr.Logger) *Runner {
	return &Runner{log: log, binary: "git"}
}

// Run executes git with args.
func (r *Runner) Run(ctx context.Context, args []string, opts Options) (Result, error) {
	if err := validateArgs(args); err != nil {
		return Result{
			Stderr:   err.Error(),
			ExitCode: -1,
		}, err
	}

	// #nosec G204 - subcommand is allowlisted and arguments are never interpreted by a shell
	cmd := exec.CommandContext(ctx, r.binary, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	// SIGTERM lets an interrupted clone remove its target directory.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = cancelGrace

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if opts.Output != nil {
		cmd.Stdout = io.MultiWriter(&stdout, opts.Output)
		cmd.Stderr = io.MultiWriter(&stderr, opts.Output)
	}

	line := FormatCommand(args)
	r.log.Info("Command executed: "+line, "dir", opts.Dir)

	err := cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
	}
	r.log.V(1).Info("git exited", "cmd", line, "exit", result.ExitCode)

	if err != nil {
		if detail := lastLine(result.Stderr); detail != "" {
			return result, fmt.Errorf("%s failed: %w: %s", line, err, detail)
		}
		return result, fmt.Errorf("%s failed: %w", line, err)
	}
	return result, nil
}

// FormatCommand renders args as a git command line for logs.
func FormatCommand(args []string) string {
	if len(args) == 0 {
		return "git"
	}
	return "git " + strings.Join(args, " ")
}

func validateArgs(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("git command is required")
	}
	if _, ok := allowedSubcommands[args[0]]; !ok {
		return fmt.Errorf("git subcommand %q is not allowed", args[0])
	}
	return nil
}

var allowedSubcommands = map[string]struct{}{
	"checkout":     {},
	"clone":        {},
	"pull":         {},
	"rev-parse":    {},
	"symbolic-ref": {},
	"version":      {},
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1
	}
	return exitErr.ExitCode()
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
