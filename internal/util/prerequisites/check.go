// Package prerequisites checks that the external tools vmmanager shells out
// to are installed.
package prerequisites

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Tool represents a command line tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH, or an absolute path.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallHint tells the operator how to install it.
	InstallHint string
}

// DefaultTools returns the tools every lab test needs.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "git",
			Required:    true,
			Description: "Required for cloning and updating lab repositories",
			InstallHint: "apt-get install git",
		},
	}
}

// ShellTool returns the shell that runs installer and build steps.
func ShellTool(shell string) Tool {
	return Tool{
		Name:        shell,
		Required:    true,
		Description: "Runs lab installer and build steps",
		InstallHint: "set shell in vmmanager.yaml to an installed shell",
	}
}

// ProbeTools returns the tools behind the health probes. They are optional:
// a missing tool only makes its probe report an error.
func ProbeTools() []Tool {
	return []Tool{
		{Name: "uptime", Description: "runningtime probe", InstallHint: "apt-get install procps"},
		{Name: "free", Description: "memusage probe", InstallHint: "apt-get install procps"},
		{Name: "df", Description: "diskusage probe", InstallHint: "apt-get install coreutils"},
		{Name: "ps", Description: "runningprocesses and cpuload probes", InstallHint: "apt-get install procps"},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallHint))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = getToolVersion(path)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckForLabTest checks the tools a lab test needs with the given shell.
func CheckForLabTest(shell string) *CheckResults {
	return Check(append(DefaultTools(), ShellTool(shell)))
}

// CheckAll checks the lab test tools and the probe tools.
func CheckAll(shell string) *CheckResults {
	return Check(append(append(DefaultTools(), ShellTool(shell)), ProbeTools()...))
}

// getToolVersion returns the first line of "<tool> --version", or "".
func getToolVersion(path string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// #nosec G204 - path comes from exec.LookPath on a fixed tool list
	output, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(line)
}
