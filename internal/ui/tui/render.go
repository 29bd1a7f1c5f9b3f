package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/vlabs/vmmanager/internal/provisioning"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RenderResult renders the outcome of a lab test for plain output.
func RenderResult(r provisioning.Result) string {
	var b strings.Builder

	if r.Success() {
		fmt.Fprintf(&b, "%s %s", readyStyle.Render(checkMark), readyStyle.Render(r.String()))
	} else {
		fmt.Fprintf(&b, "%s %s", failedStyle.Render(crossMark), failedStyle.Render(r.String()))
	}

	details := []string{}
	if r.RepoName != "" {
		details = append(details, "repo: "+r.RepoName)
	}
	if r.Commit != "" {
		details = append(details, "commit: "+shortCommit(r.Commit))
	}
	details = append(details, "duration: "+formatDuration(r.Duration))
	fmt.Fprintf(&b, "  %s\n", dimStyle.Render(strings.Join(details, "  ")))

	if !r.Success() {
		fmt.Fprintf(&b, "    stage:  %s\n", warningStyle.Render(string(r.Stage)))
		fmt.Fprintf(&b, "    reason: %s\n", r.Reason)
	}
	if r.RunID != "" {
		fmt.Fprintf(&b, "    %s\n", dimStyle.Render("run: "+r.RunID))
	}
	return b.String()
}

// RenderProbe renders one probe answer under a heading.
func RenderProbe(name, output string) string {
	return sectionStyle.Render(name) + "\n" + strings.TrimRight(output, "\n") + "\n"
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
