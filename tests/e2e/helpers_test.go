//go:build e2e

package e2e

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vlabs/vmmanager/internal/actionrunner"
	"github.com/vlabs/vmmanager/internal/gitcmd"
	"github.com/vlabs/vmmanager/internal/labspec"
	"github.com/vlabs/vmmanager/internal/labsync"
	"github.com/vlabs/vmmanager/internal/provisioning"
	vmmtesting "github.com/vlabs/vmmanager/internal/testing"
)

const specPath = "scripts/labspec.json"

// labRemote is a git repository the pipeline clones from.
type labRemote struct {
	dir string
}

func newLabRemote(name string) *labRemote {
	dir := filepath.Join(GinkgoT().TempDir(), name)
	Expect(os.MkdirAll(dir, 0o755)).To(Succeed())

	r := &labRemote{dir: dir}
	r.git("init", "-q", "-b", "main")
	r.git("config", "user.email", "lab@example.com")
	r.git("config", "user.name", "Lab Author")
	r.git("config", "commit.gpgsign", "false")
	return r
}

func (r *labRemote) git(args ...string) string {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	Expect(err).NotTo(HaveOccurred(), "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

// commit writes files and commits them, returning the new commit hash.
func (r *labRemote) commit(files map[string]string, msg string) string {
	for rel, content := range files {
		path := filepath.Join(r.dir, rel)
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	}
	r.git("add", "-A")
	r.git("commit", "-q", "--allow-empty", "-m", msg)
	return r.git("rev-parse", "HEAD")
}

// passingSpec installs a marker file and builds by checking it.
func passingSpec(marker string) string {
	return vmmtesting.NewLabSpecBuilder().
		WithInstaller([]any{"echo " + marker + " > installed"}).
		WithBuildSteps([]any{"test -f installed", "cat installed > built"}).
		JSON()
}

// recordingGit counts git subcommands run through the real runner.
type recordingGit struct {
	git *gitcmd.Runner

	mu   sync.Mutex
	subs []string
}

func (g *recordingGit) Run(ctx context.Context, args []string, opts gitcmd.Options) (gitcmd.Result, error) {
	g.mu.Lock()
	g.subs = append(g.subs, args[0])
	g.mu.Unlock()
	return g.git.Run(ctx, args, opts)
}

func (g *recordingGit) count(sub string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, s := range g.subs {
		if s == sub {
			n++
		}
	}
	return n
}

// recordingRunner records the order of Action Runner calls.
type recordingRunner struct {
	runner actionrunner.Runner

	mu    sync.Mutex
	calls []string
}

func (r *recordingRunner) RunInstallSource(ctx context.Context, req actionrunner.Request) error {
	r.record(actionrunner.KeyInstaller)
	return r.runner.RunInstallSource(ctx, req)
}

func (r *recordingRunner) RunBuildSteps(ctx context.Context, req actionrunner.Request) error {
	r.record(actionrunner.KeyBuildSteps)
	return r.runner.RunBuildSteps(ctx, req)
}

func (r *recordingRunner) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// harness is a pipeline over a fresh cache root with recording collaborators.
type harness struct {
	cacheRoot string
	git       *recordingGit
	runner    *recordingRunner
	pipeline  *provisioning.Pipeline
}

func newHarness() *harness {
	log := logr.Discard()
	h := &harness{
		cacheRoot: GinkgoT().TempDir(),
		git:       &recordingGit{git: gitcmd.NewRunner(log)},
	}
	h.runner = &recordingRunner{runner: actionrunner.NewShellRunner("/bin/sh", GinkgoWriter, log)}

	syncer := labsync.New(h.cacheRoot, h.git, log, labsync.WithOutput(GinkgoWriter))
	specs := labspec.NewLoader(h.cacheRoot, specPath, log)
	h.pipeline = provisioning.NewPipeline(syncer, specs, h.runner, log)
	return h
}

func (h *harness) testLab(url, version string) provisioning.Result {
	return h.pipeline.TestLab(context.Background(), labsync.Source{URL: url, Version: version})
}

func (h *harness) workingCopy(name string) string {
	return filepath.Join(h.cacheRoot, name)
}

func readFile(path string) string {
	data, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())
	return strings.TrimSpace(string(data))
}
