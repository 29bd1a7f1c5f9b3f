package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"

	"github.com/vlabs/vmmanager/internal/config"
	"github.com/vlabs/vmmanager/internal/labsync"
	"github.com/vlabs/vmmanager/internal/lock"
	"github.com/vlabs/vmmanager/internal/provisioning"
	"github.com/vlabs/vmmanager/internal/report"
	"github.com/vlabs/vmmanager/internal/util/prerequisites"
)

// captureOutput captures stdout during function execution.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// saveAndRestoreFactories saves and restores every handler factory function.
func saveAndRestoreFactories(t *testing.T) {
	origLoadConfig := loadConfig
	origOpenLogSink := openLogSink
	origNewArchiveStore := newArchiveStore
	origNewLocker := newLocker
	origNewProbeExecutor := newProbeExecutor
	origNewLabTester := newLabTester
	origCheckLabPrereqs := checkLabPrereqs
	origCheckProbePrereqs := checkProbePrereqs
	origRunLabTUI := runLabTUI
	origStdoutIsTerminal := stdoutIsTerminal
	origNewServer := newServer

	t.Cleanup(func() {
		loadConfig = origLoadConfig
		openLogSink = origOpenLogSink
		newArchiveStore = origNewArchiveStore
		newLocker = origNewLocker
		newProbeExecutor = origNewProbeExecutor
		newLabTester = origNewLabTester
		checkLabPrereqs = origCheckLabPrereqs
		checkProbePrereqs = origCheckProbePrereqs
		runLabTUI = origRunLabTUI
		stdoutIsTerminal = origStdoutIsTerminal
		newServer = origNewServer
	})
}

// stubRuntime makes newRuntime return cfg with a discarding log sink, an
// in-memory locker and all prerequisites present.
func stubRuntime(t *testing.T, cfg *config.Config) *fakeSink {
	t.Helper()
	saveAndRestoreFactories(t)

	sink := &fakeSink{}
	loadConfig = func(string) (*config.Config, error) { return cfg, nil }
	openLogSink = func(config.LogConfig) (logSink, error) { return sink, nil }
	newLocker = func(context.Context, config.LockConfig) (lock.Locker, io.Closer, error) {
		return lock.NewMemoryLocker(), nil, nil
	}
	checkLabPrereqs = func(string) *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	checkProbePrereqs = func() *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	stdoutIsTerminal = func() bool { return false }
	return sink
}

type fakeSink struct {
	closed int
}

func (s *fakeSink) Logger() logr.Logger { return logr.Discard() }
func (s *fakeSink) Output() io.Writer   { return io.Discard }
func (s *fakeSink) Close() error {
	s.closed++
	return nil
}

// fakeTester returns a fixed result and records its sources.
type fakeTester struct {
	mu      sync.Mutex
	result  provisioning.Result
	sources []labsync.Source
}

func (f *fakeTester) TestLab(_ context.Context, src labsync.Source) provisioning.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, src)
	r := f.result
	r.Source = src
	return r
}

// useTester installs tester and records the options of every pipeline built.
func useTester(tester LabTester) *[]int {
	optCounts := &[]int{}
	newLabTester = func(_ *runtime, opts ...provisioning.Option) LabTester {
		*optCounts = append(*optCounts, len(opts))
		return tester
	}
	return optCounts
}

// memStore is an in-memory report.Store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ report.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) PutObject(_ context.Context, key, _ string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) GetObject(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (m *memStore) ListObjects(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
