package prerequisites

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Found(t *testing.T) {
	var found string
	for _, tool := range []string{"sh", "ls", "cat"} {
		if _, err := exec.LookPath(tool); err == nil {
			found = tool
			break
		}
	}
	if found == "" {
		t.Skip("no common tools found in PATH")
	}

	results := Check([]Tool{{Name: found, Required: true}})

	require.Len(t, results.Results, 1)
	assert.True(t, results.Results[0].Found)
	assert.NotEmpty(t, results.Results[0].Path)
	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
}

func TestCheck_Missing(t *testing.T) {
	tests := []struct {
		name      string
		required  bool
		wantError bool
	}{
		{name: "required", required: true, wantError: true},
		{name: "optional", required: false, wantError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Check([]Tool{{Name: "nonexistent-tool-xyz123", Required: tt.required, InstallHint: "build it"}})

			require.Len(t, results.Missing, 1)
			assert.Equal(t, tt.wantError, results.HasErrors())
			if tt.wantError {
				require.Error(t, results.Error())
				assert.Contains(t, results.Error().Error(), "nonexistent-tool-xyz123 (build it)")
			} else {
				assert.NoError(t, results.Error())
			}
		})
	}
}

func TestDefaultTools(t *testing.T) {
	tools := DefaultTools()
	require.Len(t, tools, 1)
	assert.Equal(t, "git", tools[0].Name)
	assert.True(t, tools[0].Required)
}

func TestShellTool(t *testing.T) {
	tool := ShellTool("/bin/bash")
	assert.Equal(t, "/bin/bash", tool.Name)
	assert.True(t, tool.Required)
}

func TestProbeTools(t *testing.T) {
	tools := ProbeTools()
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		assert.False(t, tool.Required, tool.Name)
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"uptime", "free", "df", "ps"}, names)
}

func TestCheckForLabTest_MissingShell(t *testing.T) {
	results := CheckForLabTest("/nonexistent/shell")

	require.Len(t, results.Results, 2)
	assert.True(t, results.HasErrors())
	assert.Contains(t, results.Error().Error(), "/nonexistent/shell")
}

func TestCheckAll(t *testing.T) {
	results := CheckAll("/bin/sh")
	assert.Len(t, results.Results, 2+len(ProbeTools()))
}

func TestGetToolVersion(t *testing.T) {
	git, err := exec.LookPath("git")
	if err != nil {
		t.Skip("git not installed")
	}
	assert.Contains(t, getToolVersion(git), "git version")
	assert.Empty(t, getToolVersion("/nonexistent/tool"))
}
