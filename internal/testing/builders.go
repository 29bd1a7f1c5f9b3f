package testing

import (
	"encoding/json"
	"maps"

	"github.com/vlabs/vmmanager/internal/config"
)

// LabSpecBuilder provides a fluent interface for labspec.json documents.
// Each method returns a new builder (immutable) for chaining.
type LabSpecBuilder struct {
	platform map[string]any
	extra    map[string]any
}

// NewLabSpecBuilder creates a builder for a spec with no installer or build steps.
func NewLabSpecBuilder() *LabSpecBuilder {
	return &LabSpecBuilder{
		platform: map[string]any{},
		extra:    map[string]any{},
	}
}

// WithInstaller sets lab.build_requirements.platform.installer.
func (b *LabSpecBuilder) WithInstaller(v any) *LabSpecBuilder {
	nb := b.clone()
	nb.platform["installer"] = v
	return nb
}

// WithBuildSteps sets lab.build_requirements.platform.build_steps.
func (b *LabSpecBuilder) WithBuildSteps(v any) *LabSpecBuilder {
	nb := b.clone()
	nb.platform["build_steps"] = v
	return nb
}

// WithLabField sets an additional key under lab.
func (b *LabSpecBuilder) WithLabField(key string, v any) *LabSpecBuilder {
	nb := b.clone()
	nb.extra[key] = v
	return nb
}

// Document returns the spec as a generic JSON document.
func (b *LabSpecBuilder) Document() map[string]any {
	lab := maps.Clone(b.extra)
	lab["build_requirements"] = map[string]any{"platform": maps.Clone(b.platform)}
	return map[string]any{"lab": lab}
}

// JSON returns the spec serialized as indented JSON.
func (b *LabSpecBuilder) JSON() string {
	data, err := json.MarshalIndent(b.Document(), "", "  ")
	if err != nil {
		panic(err)
	}
	return string(data)
}

func (b *LabSpecBuilder) clone() *LabSpecBuilder {
	return &LabSpecBuilder{
		platform: maps.Clone(b.platform),
		extra:    maps.Clone(b.extra),
	}
}

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a ConfigBuilder starting from config.Default
// with logging kept off disk.
func NewConfigBuilder() *ConfigBuilder {
	cfg := *config.Default()
	cfg.Log.File = ""
	return &ConfigBuilder{cfg: cfg}
}

// WithCacheRoot sets the cache root.
func (b *ConfigBuilder) WithCacheRoot(dir string) *ConfigBuilder {
	nb := *b
	nb.cfg.CacheRoot = dir
	return &nb
}

// WithShell sets the step shell.
func (b *ConfigBuilder) WithShell(shell string) *ConfigBuilder {
	nb := *b
	nb.cfg.Shell = shell
	return &nb
}

// WithLogFile sets the log file.
func (b *ConfigBuilder) WithLogFile(path string) *ConfigBuilder {
	nb := *b
	nb.cfg.Log.File = path
	return &nb
}

// Build returns a copy of the configured Config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.cfg
	return &cfg
}
