package provisioning

import (
	"errors"

	"github.com/vlabs/vmmanager/internal/actionrunner"
	"github.com/vlabs/vmmanager/internal/labsync"
)

// syncPhase clones or pulls the lab repository and checks out the version.
type syncPhase struct {
	sync Synchronizer
}

func (p *syncPhase) Name() string { return string(StageSync) }

func (p *syncPhase) Provision(ctx *Context) error {
	name, err := p.sync.Sync(ctx, ctx.Source)
	ctx.State.RepoName = name
	if err != nil {
		stage := StageSync
		var serr *labsync.SyncError
		if errors.As(err, &serr) && serr.Stage == labsync.StageCheckout {
			stage = StageCheckout
		}
		return &StageError{Stage: stage, Err: err}
	}
	ctx.State.WorkDir = p.sync.RepoPath(name)

	commit, err := p.sync.Head(ctx, name)
	if err != nil {
		ctx.Log.V(1).Info("Could not resolve HEAD", "repo", name, "error", err.Error())
		return nil
	}
	ctx.State.Commit = commit
	return nil
}

// specPhase loads the lab specification and projects its step sets.
type specPhase struct {
	specs SpecLoader
}

func (p *specPhase) Name() string { return string(StageSpecLoad) }

func (p *specPhase) Provision(ctx *Context) error {
	spec, err := p.specs.Load(ctx.State.RepoName)
	if err != nil {
		return &StageError{Stage: StageSpecLoad, Err: err}
	}
	ctx.State.Installer = spec.Installer()
	ctx.State.BuildSteps = spec.BuildSteps()
	return nil
}

// installPhase runs the installer step set.
type installPhase struct {
	runner actionrunner.Runner
}

func (p *installPhase) Name() string { return string(StageInstall) }

func (p *installPhase) Provision(ctx *Context) error {
	req := actionrunner.Request{
		WorkDir: ctx.State.WorkDir,
		Payload: actionrunner.Payload{actionrunner.KeyInstaller: ctx.State.Installer},
	}
	if err := p.runner.RunInstallSource(ctx, req); err != nil {
		return &StageError{Stage: StageInstall, Err: err}
	}
	return nil
}

// buildPhase runs the build step set.
type buildPhase struct {
	runner actionrunner.Runner
}

func (p *buildPhase) Name() string { return string(StageBuild) }

func (p *buildPhase) Provision(ctx *Context) error {
	req := actionrunner.Request{
		WorkDir: ctx.State.WorkDir,
		Payload: actionrunner.Payload{actionrunner.KeyBuildSteps: ctx.State.BuildSteps},
	}
	if err := p.runner.RunBuildSteps(ctx, req); err != nil {
		return &StageError{Stage: StageBuild, Err: err}
	}
	return nil
}
