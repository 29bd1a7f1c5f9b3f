// Package testing provides test utilities, fakes, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - FakeGit: scripted git runner recording every invocation
//   - LabRemote: real on-disk git repository acting as a lab source
//   - LabSpecBuilder: fluent builder for labspec.json documents
//   - ConfigBuilder: fluent builder for test configurations
//   - MockActionRunner: testify mock of the Action Runner
//
// Usage:
//
//	remote := testing.NewLabRemote(t)
//	remote.Commit(t, map[string]string{
//	    "scripts/labspec.json": testing.NewLabSpecBuilder().WithInstaller("true").JSON(),
//	}, "initial")
package testing
