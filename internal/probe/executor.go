package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Executor runs a command given as an argument vector and returns its stdout.
type Executor interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// LocalExecutor runs probe commands on this machine.
type LocalExecutor struct{}

// Output implements Executor.
func (LocalExecutor) Output(ctx context.Context, name string, args ...string) (string, error) {
	// #nosec G204 - probe commands are fixed argument vectors
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(out), fmt.Errorf("%w: %s", err, msg)
		}
		return string(out), err
	}
	return string(out), nil
}

// CommandRunner runs a complete command line, such as an SSH client.
type CommandRunner interface {
	Execute(ctx context.Context, command string) (string, error)
}

// RemoteExecutor runs probe commands through a CommandRunner.
type RemoteExecutor struct {
	Runner CommandRunner
}

// Output implements Executor. Arguments are quoted for a POSIX shell.
func (r RemoteExecutor) Output(ctx context.Context, name string, args ...string) (string, error) {
	if r.Runner == nil {
		return "", errors.New("remote executor has no runner")
	}
	return r.Runner.Execute(ctx, CommandLine(name, args...))
}

// CommandLine joins an argument vector into a POSIX shell command line.
func CommandLine(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}
