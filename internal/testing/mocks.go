package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vlabs/vmmanager/internal/actionrunner"
)

// MockActionRunner is a mock implementation of actionrunner.Runner.
type MockActionRunner struct {
	mock.Mock
}

// RunInstallSource records the installer request.
func (m *MockActionRunner) RunInstallSource(ctx context.Context, req actionrunner.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// RunBuildSteps records the build request.
func (m *MockActionRunner) RunBuildSteps(ctx context.Context, req actionrunner.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockExecutor is a mock of a probe command executor.
type MockExecutor struct {
	mock.Mock
}

// Output returns the scripted output of name with args.
func (m *MockExecutor) Output(ctx context.Context, name string, args ...string) (string, error) {
	call := m.Called(ctx, name, args)
	return call.String(0), call.Error(1)
}
