package actionrunner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallerCommands(t *testing.T) {
	tests := []struct {
		name    string
		spec    any
		want    []string
		wantErr string
	}{
		{"string", "apt-get update", []string{"apt-get update"}, ""},
		{"list", []any{"a", "b"}, []string{"a", "b"}, ""},
		{"typed list", []string{"a"}, []string{"a"}, ""},
		{"empty list", []any{}, []string{}, ""},
		{"number", int64(3), nil, "unsupported step set of type int64"},
		{"object", map[string]any{"x": "y"}, nil, "unsupported step set"},
		{"mixed list", []any{"a", 1.5}, nil, "item 1 is float64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InstallerCommands(tt.spec)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildCommands_GroupOrder(t *testing.T) {
	spec := map[string]any{
		"status":     "echo status",
		"zz_extra":   "echo zz",
		"build":      []any{"make", "make check"},
		"configure":  "./configure",
		"aa_extra":   []any{"echo aa"},
		"post_build": nil,
		"pre_build":  "echo pre",
	}

	got, err := BuildCommands(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"./configure",
		"echo pre",
		"make",
		"make check",
		"echo status",
		"echo aa",
		"echo zz",
	}, got)
}

func TestBuildCommands_Shapes(t *testing.T) {
	got, err := BuildCommands("make")
	require.NoError(t, err)
	assert.Equal(t, []string{"make"}, got)

	got, err = BuildCommands([]any{"make", "make install"})
	require.NoError(t, err)
	assert.Equal(t, []string{"make", "make install"}, got)

	_, err = BuildCommands(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build_steps")

	_, err = BuildCommands(map[string]any{"build": map[string]any{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build_steps.build")
}
