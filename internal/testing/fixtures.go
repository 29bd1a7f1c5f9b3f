package testing

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RequireGit skips the test when git is not installed.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// LabRemote is a real git repository on disk that tests clone from.
type LabRemote struct {
	// Dir is the repository's working tree.
	Dir string
	// URL is what a lab source would use to clone it.
	URL string
}

// NewLabRemote initializes an empty repository named name under a temp dir.
// The repository's default branch is main.
func NewLabRemote(t *testing.T, name string) *LabRemote {
	t.Helper()
	RequireGit(t)

	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create remote dir: %v", err)
	}
	r := &LabRemote{Dir: dir, URL: dir}
	r.Git(t, "init", "-q", "-b", "main")
	r.Git(t, "config", "user.email", "lab@example.com")
	r.Git(t, "config", "user.name", "Lab Author")
	r.Git(t, "config", "commit.gpgsign", "false")
	return r
}

// Commit writes files (relative path to content) and commits them.
// It returns the new commit hash.
func (r *LabRemote) Commit(t *testing.T, files map[string]string, msg string) string {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(r.Dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	r.Git(t, "add", "-A")
	r.Git(t, "commit", "-q", "--allow-empty", "-m", msg)
	return r.Git(t, "rev-parse", "HEAD")
}

// Tag creates a lightweight tag at HEAD.
func (r *LabRemote) Tag(t *testing.T, name string) {
	t.Helper()
	r.Git(t, "tag", name)
}

// Git runs a git command in the repository and returns trimmed stdout.
func (r *LabRemote) Git(t *testing.T, args ...string) string {
	t.Helper()
	return GitIn(t, r.Dir, args...)
}

// GitIn runs a git command in dir and returns trimmed stdout.
func GitIn(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}
