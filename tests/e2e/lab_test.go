//go:build e2e

package e2e

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vlabs/vmmanager/internal/actionrunner"
	"github.com/vlabs/vmmanager/internal/provisioning"
	vmmtesting "github.com/vlabs/vmmanager/internal/testing"
)

var _ = Describe("Testing a lab", func() {
	var (
		h      *harness
		remote *labRemote
	)

	BeforeEach(func() {
		h = newHarness()
		remote = newLabRemote("web-lab")
	})

	Context("when the lab is not cached yet", func() {
		It("clones, installs and builds in order", func() {
			head := remote.commit(map[string]string{specPath: passingSpec("v1")}, "first")

			result := h.testLab(remote.dir, "")

			Expect(result.Success()).To(BeTrue(), "stage %s: %s", result.Stage, result.Reason)
			Expect(result.String()).To(Equal(provisioning.MessageSuccess))
			Expect(result.RepoName).To(Equal("web-lab"))
			Expect(result.Commit).To(Equal(head))

			Expect(h.git.count("clone")).To(Equal(1))
			Expect(h.git.count("pull")).To(BeZero())
			Expect(h.git.count("checkout")).To(BeZero())
			Expect(h.runner.Calls()).To(Equal([]string{actionrunner.KeyInstaller, actionrunner.KeyBuildSteps}))

			Expect(readFile(filepath.Join(h.workingCopy("web-lab"), "built"))).To(Equal("v1"))
		})

		It("checks out the requested version after cloning", func() {
			tagged := remote.commit(map[string]string{specPath: passingSpec("v1")}, "first")
			remote.git("tag", "v1.0")
			remote.commit(map[string]string{specPath: passingSpec("v2")}, "second")

			result := h.testLab(remote.dir, "v1.0")

			Expect(result.Success()).To(BeTrue(), "stage %s: %s", result.Stage, result.Reason)
			Expect(result.Commit).To(Equal(tagged))
			Expect(h.git.count("clone")).To(Equal(1))
			Expect(h.git.count("checkout")).To(Equal(1))
			Expect(readFile(filepath.Join(h.workingCopy("web-lab"), "built"))).To(Equal("v1"))
		})
	})

	Context("when the lab is run again later", func() {
		It("pulls instead of cloning and tests the new commit", func() {
			remote.commit(map[string]string{specPath: passingSpec("v1")}, "first")
			Expect(h.testLab(remote.dir, "").Success()).To(BeTrue())

			head := remote.commit(map[string]string{specPath: passingSpec("v2")}, "second")
			result := h.testLab(remote.dir, "")

			Expect(result.Success()).To(BeTrue(), "stage %s: %s", result.Stage, result.Reason)
			Expect(result.Commit).To(Equal(head))
			Expect(h.git.count("clone")).To(Equal(1))
			Expect(h.git.count("pull")).To(Equal(1))
			Expect(readFile(filepath.Join(h.workingCopy("web-lab"), "built"))).To(Equal("v2"))
		})

		It("honors the version after pulling", func() {
			remote.commit(map[string]string{specPath: passingSpec("v1")}, "first")
			Expect(h.testLab(remote.dir, "").Success()).To(BeTrue())

			remote.commit(map[string]string{specPath: passingSpec("v2")}, "second")
			tagged := remote.commit(map[string]string{specPath: passingSpec("v3")}, "third")
			remote.git("tag", "v3.0")
			remote.commit(map[string]string{specPath: passingSpec("v4")}, "fourth")

			result := h.testLab(remote.dir, "v3.0")

			Expect(result.Success()).To(BeTrue(), "stage %s: %s", result.Stage, result.Reason)
			Expect(result.Commit).To(Equal(tagged))
			Expect(h.git.count("pull")).To(Equal(1))
			Expect(h.git.count("checkout")).To(Equal(1))

			// A later run without a version returns to the branch tip.
			head := remote.git("rev-parse", "HEAD")
			result = h.testLab(remote.dir, "")
			Expect(result.Success()).To(BeTrue(), "stage %s: %s", result.Stage, result.Reason)
			Expect(result.Commit).To(Equal(head))
		})
	})

	Context("when the lab spec is absent", func() {
		It("fails at spec-load without running any step", func() {
			remote.commit(map[string]string{"README.md": "# web lab\n"}, "no spec")

			result := h.testLab(remote.dir, "")

			Expect(result.Success()).To(BeFalse())
			Expect(result.String()).To(Equal(provisioning.MessageFailure))
			Expect(result.Stage).To(Equal(provisioning.StageSpecLoad))
			Expect(result.Reason).To(Equal("Lab spec file not found"))
			Expect(h.runner.Calls()).To(BeEmpty())
		})
	})

	Context("when the lab spec is incomplete", func() {
		It("fails at spec-load", func() {
			spec := vmmtesting.NewLabSpecBuilder().WithInstaller([]any{"true"}).JSON()
			remote.commit(map[string]string{specPath: spec}, "no build steps")

			result := h.testLab(remote.dir, "")

			Expect(result.Stage).To(Equal(provisioning.StageSpecLoad))
			Expect(result.Reason).To(ContainSubstring("Lab spec JSON invalid"))
			Expect(h.runner.Calls()).To(BeEmpty())
		})
	})

	Context("when a step fails", func() {
		It("stops at install and skips the build", func() {
			spec := vmmtesting.NewLabSpecBuilder().
				WithInstaller([]any{"exit 3"}).
				WithBuildSteps([]any{"true"}).
				JSON()
			remote.commit(map[string]string{specPath: spec}, "broken installer")

			result := h.testLab(remote.dir, "")

			Expect(result.Stage).To(Equal(provisioning.StageInstall))
			Expect(result.Reason).To(ContainSubstring("exit code 3"))
			Expect(h.runner.Calls()).To(Equal([]string{actionrunner.KeyInstaller}))
		})

		It("reports the build stage", func() {
			spec := vmmtesting.NewLabSpecBuilder().
				WithInstaller([]any{"true"}).
				WithBuildSteps([]any{"true", "false"}).
				JSON()
			remote.commit(map[string]string{specPath: spec}, "broken build")

			result := h.testLab(remote.dir, "")

			Expect(result.Stage).To(Equal(provisioning.StageBuild))
			Expect(h.runner.Calls()).To(Equal([]string{actionrunner.KeyInstaller, actionrunner.KeyBuildSteps}))
		})
	})

	Context("when the repository cannot be reached", func() {
		It("fails at sync", func() {
			result := h.testLab(filepath.Join(GinkgoT().TempDir(), "missing-lab"), "")

			Expect(result.Stage).To(Equal(provisioning.StageSync))
			Expect(result.RepoName).To(Equal("missing-lab"))
			Expect(h.runner.Calls()).To(BeEmpty())
		})

		It("fails at checkout for an unknown version", func() {
			remote.commit(map[string]string{specPath: passingSpec("v1")}, "first")

			result := h.testLab(remote.dir, "no-such-tag")

			Expect(result.Stage).To(Equal(provisioning.StageCheckout))
			Expect(h.runner.Calls()).To(BeEmpty())
		})
	})
})
