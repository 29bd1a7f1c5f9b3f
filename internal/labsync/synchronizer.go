package labsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/vlabs/vmmanager/internal/gitcmd"
)

// Git runs git commands. *gitcmd.Runner satisfies it.
type Git interface {
	Run(ctx context.Context, args []string, opts gitcmd.Options) (gitcmd.Result, error)
}

// Synchronizer maintains working copies under a cache root.
// It assumes at most one concurrent Sync per repository name.
type Synchronizer struct {
	root   string
	git    Git
	log    logr.Logger
	output io.Writer
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithOutput sends git's stdout and stderr to w.
func WithOutput(w io.Writer) Option {
	return func(s *Synchronizer) {
		s.output = w
	}
}

// New creates a Synchronizer rooted at root.
func New(root string, git Git, log logr.Logger, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		root:   root,
		git:    git,
		log:    log.WithName("labsync"),
		output: io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the cache root.
func (s *Synchronizer) Root() string {
	return s.root
}

// RepoPath returns the working copy directory for name.
func (s *Synchronizer) RepoPath(name string) string {
	return filepath.Join(s.root, name)
}

// Sync brings the working copy of src up to date and returns its repo name.
// The working copy is cloned when absent and pulled otherwise; when
// src.Version is set it is checked out afterwards.
func (s *Synchronizer) Sync(ctx context.Context, src Source) (string, error) {
	name := RepoName(src.URL)
	log := s.log.WithValues("repo", name, "url", src.URL, "version", src.Version)

	if err := validRepoName(name); err != nil {
		return name, s.fail(log, StageClone, name, src.Version, err)
	}

	exists, err := s.Exists(name)
	if err != nil {
		return name, s.fail(log, StageClone, name, src.Version, err)
	}

	if exists {
		log.Info("Pulling lab repository")
		err = s.Pull(ctx, name)
	} else {
		log.Info("Cloning lab repository")
		err = s.Clone(ctx, src.URL, name)
	}
	if err != nil {
		return name, err
	}

	if src.Version != "" {
		if err := s.Checkout(ctx, name, src.Version); err != nil {
			return name, err
		}
	}
	return name, nil
}

// Exists reports whether the working copy directory for name exists.
func (s *Synchronizer) Exists(name string) (bool, error) {
	info, err := os.Stat(s.RepoPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("path is not a directory: %s", s.RepoPath(name))
	}
	return true, nil
}

// Clone clones url into the working copy directory for name. A failed
// clone into a directory that did not exist before leaves no directory
// behind, so the next Sync clones again instead of pulling.
func (s *Synchronizer) Clone(ctx context.Context, url, name string) error {
	log := s.log.WithValues("repo", name, "url", url)

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return s.fail(log, StageClone, name, "", fmt.Errorf("create cache root: %w", err))
	}
	existed, err := s.Exists(name)
	if err != nil {
		return s.fail(log, StageClone, name, "", err)
	}
	if _, err := s.run(ctx, "", "clone", "--", url, s.RepoPath(name)); err != nil {
		if !existed {
			if rerr := os.RemoveAll(s.RepoPath(name)); rerr != nil {
				log.Error(rerr, "Could not remove partial working copy", "dir", s.RepoPath(name))
			}
		}
		return s.fail(log, StageClone, name, "", err)
	}
	return nil
}

// Pull fast-forwards the working copy for name from its remote.
// A working copy left on a detached HEAD by an earlier versioned run is
// first moved back to the remote's default branch.
func (s *Synchronizer) Pull(ctx context.Context, name string) error {
	log := s.log.WithValues("repo", name)
	dir := s.RepoPath(name)

	if err := s.reattach(ctx, dir); err != nil {
		return s.fail(log, StagePull, name, "", err)
	}
	if _, err := s.run(ctx, dir, "pull"); err != nil {
		return s.fail(log, StagePull, name, "", err)
	}
	return nil
}

// Checkout switches the working copy for name to version.
func (s *Synchronizer) Checkout(ctx context.Context, name, version string) error {
	log := s.log.WithValues("repo", name, "version", version)

	if strings.HasPrefix(version, "-") {
		return s.fail(log, StageCheckout, name, version, fmt.Errorf("invalid version %q", version))
	}
	if _, err := s.run(ctx, s.RepoPath(name), "checkout", version, "--"); err != nil {
		return s.fail(log, StageCheckout, name, version, err)
	}
	return nil
}

// Head returns the commit currently checked out in the working copy for name.
func (s *Synchronizer) Head(ctx context.Context, name string) (string, error) {
	res, err := s.run(ctx, s.RepoPath(name), "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

func (s *Synchronizer) reattach(ctx context.Context, dir string) error {
	if _, err := s.run(ctx, dir, "symbolic-ref", "-q", "HEAD"); err == nil {
		return nil
	}

	res, err := s.run(ctx, dir, "symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err != nil {
		return fmt.Errorf("working copy is on a detached HEAD and the remote default branch is unknown: %w", err)
	}
	branch := strings.TrimPrefix(strings.TrimSpace(res.Stdout), "origin/")
	if branch == "" || strings.HasPrefix(branch, "-") {
		return fmt.Errorf("unusable remote default branch %q", branch)
	}

	s.log.V(1).Info("Reattaching detached working copy", "dir", dir, "branch", branch)
	_, err = s.run(ctx, dir, "checkout", branch, "--")
	return err
}

func (s *Synchronizer) run(ctx context.Context, dir string, args ...string) (gitcmd.Result, error) {
	return s.git.Run(ctx, args, gitcmd.Options{Dir: dir, Output: s.output})
}

func (s *Synchronizer) fail(log logr.Logger, stage Stage, name, version string, err error) error {
	serr := &SyncError{Stage: stage, Repo: name, Version: version, Err: err}
	log.Error(err, "Lab repository sync failed", "stage", string(stage))
	return serr
}
