package testing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/vlabs/vmmanager/internal/gitcmd"
)

// GitCall records one FakeGit invocation.
type GitCall struct {
	Args []string
	Dir  string
}

// Line returns the call as a command line without the git prefix.
func (c GitCall) Line() string {
	return strings.Join(c.Args, " ")
}

// FakeGit is a scripted git runner.
//
// Errors and Stdout are looked up by the full argument line first
// ("symbolic-ref -q HEAD") and then by subcommand ("pull").
type FakeGit struct {
	mu    sync.Mutex
	Calls []GitCall

	Errors map[string]error
	Stdout map[string]string

	// OnClone runs after a successful clone with the target directory.
	OnClone func(dir string) error
}

// NewFakeGit returns a FakeGit whose clones create the target directory.
func NewFakeGit() *FakeGit {
	return &FakeGit{
		Errors: map[string]error{},
		Stdout: map[string]string{},
		OnClone: func(dir string) error {
			return os.MkdirAll(dir, 0o755)
		},
	}
}

// Run implements labsync.Git.
func (f *FakeGit) Run(_ context.Context, args []string, opts gitcmd.Options) (gitcmd.Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, GitCall{Args: append([]string(nil), args...), Dir: opts.Dir})
	errs, outs, onClone := f.Errors, f.Stdout, f.OnClone
	f.mu.Unlock()

	if len(args) == 0 {
		return gitcmd.Result{ExitCode: -1}, fmt.Errorf("git command is required")
	}

	line := strings.Join(args, " ")
	if err := lookup(errs, line, args[0]); err != nil {
		if opts.Output != nil {
			fmt.Fprintln(opts.Output, err.Error())
		}
		return gitcmd.Result{Stderr: err.Error(), ExitCode: 128}, fmt.Errorf("git %s failed: %w", line, err)
	}

	if args[0] == "clone" && onClone != nil {
		if err := onClone(args[len(args)-1]); err != nil {
			return gitcmd.Result{ExitCode: 128}, err
		}
	}

	out := lookup(outs, line, args[0])
	if opts.Output != nil && out != "" {
		fmt.Fprint(opts.Output, out)
	}
	return gitcmd.Result{Stdout: out}, nil
}

// Subcommands returns the subcommand of every recorded call, in order.
func (f *FakeGit) Subcommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		if len(c.Args) > 0 {
			out = append(out, c.Args[0])
		}
	}
	return out
}

// Lines returns every recorded call as a command line, in order.
func (f *FakeGit) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		out = append(out, c.Line())
	}
	return out
}

func lookup[T comparable](m map[string]T, line, sub string) T {
	var zero T
	if v, ok := m[line]; ok {
		return v
	}
	if v, ok := m[sub]; ok {
		return v
	}
	return zero
}
