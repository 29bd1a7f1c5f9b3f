package labspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vtesting "github.com/vlabs/vmmanager/internal/testing"
)

func requireReason(t *testing.T, err error, reason Reason) *InvalidError {
	t.Helper()
	var ierr *InvalidError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, reason, ierr.Reason)
	return ierr
}

func TestParse_Valid(t *testing.T) {
	data := vtesting.NewLabSpecBuilder().
		WithInstaller([]string{"apt-get install -y make"}).
		WithBuildSteps(map[string]any{"build": []string{"make"}}).
		WithLabField("name", "Data Structures").
		JSON()

	spec, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, []any{"apt-get install -y make"}, spec.Installer())
	assert.Equal(t, map[string]any{"build": []any{"make"}}, spec.BuildSteps())

	lab := spec.Document.(map[string]any)["lab"].(map[string]any)
	assert.Equal(t, "Data Structures", lab["name"], "document is returned unchanged")
}

func TestParse_ScalarAndEmptyStepSets(t *testing.T) {
	data := `{"lab":{"build_requirements":{"platform":{"installer":"","build_steps":{}}}}}`

	spec, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "", spec.Installer())
	assert.Equal(t, map[string]any{}, spec.BuildSteps())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		reason     Reason
		wantDetail string
	}{
		{"empty", "", ReasonParseError, "empty document"},
		{"whitespace", "  \n", ReasonParseError, "empty document"},
		{"truncated", `{"lab": {`, ReasonParseError, ""},
		{"not json", "installer: make", ReasonParseError, ""},
		{"no lab", `{"name":"x"}`, ReasonMissingKeys, InstallerPath},
		{"lab is a list", `{"lab":[]}`, ReasonMissingKeys, InstallerPath},
		{"no installer", `{"lab":{"build_requirements":{"platform":{"build_steps":"make"}}}}`, ReasonMissingKeys, InstallerPath},
		{"no build steps", `{"lab":{"build_requirements":{"platform":{"installer":"true"}}}}`, ReasonMissingKeys, BuildStepsPath},
		{"null installer", `{"lab":{"build_requirements":{"platform":{"installer":null,"build_steps":"make"}}}}`, ReasonMissingKeys, InstallerPath},
		{"null build steps", `{"lab":{"build_requirements":{"platform":{"installer":"true","build_steps":null}}}}`, ReasonMissingKeys, BuildStepsPath},
		{"top-level array", `[1,2]`, ReasonMissingKeys, InstallerPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			ierr := requireReason(t, err, tt.reason)
			assert.Contains(t, ierr.Error(), "Lab spec JSON invalid: ")
			assert.Contains(t, ierr.Error(), tt.wantDetail)
		})
	}
}

func TestLoader_Path(t *testing.T) {
	l := NewLoader("/root/VMManager/lab-repo-cache", "scripts/labspec.json", logr.Discard())
	assert.Equal(t, "/root/VMManager/lab-repo-cache/ds-lab/scripts/labspec.json", l.Path("ds-lab"))
}

func TestLoader_Load(t *testing.T) {
	root := t.TempDir()
	vtesting.WriteFile(t, root, "ds-lab/scripts/labspec.json",
		vtesting.NewLabSpecBuilder().WithInstaller("true").WithBuildSteps("make").JSON())

	spec, err := NewLoader(root, "scripts/labspec.json", logr.Discard()).Load("ds-lab")
	require.NoError(t, err)
	assert.Equal(t, "true", spec.Installer())
	assert.Equal(t, "make", spec.BuildSteps())
}

func TestLoader_NotFound(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ds-lab"), 0o755))

	_, err := NewLoader(root, "scripts/labspec.json", logr.Discard()).Load("ds-lab")

	ierr := requireReason(t, err, ReasonNotFound)
	assert.Equal(t, "Lab spec file not found", ierr.Error())
	assert.Equal(t, filepath.Join(root, "ds-lab", "scripts", "labspec.json"), ierr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_MissingKeysRecordsPath(t *testing.T) {
	root := t.TempDir()
	path := vtesting.WriteFile(t, root, "lab/scripts/labspec.json", `{"lab":{}}`)

	_, err := NewLoader(root, "scripts/labspec.json", logr.Discard()).Load("lab")

	ierr := requireReason(t, err, ReasonMissingKeys)
	assert.Equal(t, path, ierr.Path)
}

func TestLoader_DirectoryInsteadOfFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lab", "scripts", "labspec.json"), 0o755))

	_, err := NewLoader(root, "scripts/labspec.json", logr.Discard()).Load("lab")

	requireReason(t, err, ReasonParseError)
}
