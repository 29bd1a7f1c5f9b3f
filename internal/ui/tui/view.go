package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderPhases(&b, m)
	if m.Result != nil && !m.Result.Success() {
		renderFailure(&b, m)
	}
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("vmmanager: %s", m.RepoName)
	if m.Source.Version != "" {
		title += fmt.Sprintf(" @ %s", m.Source.Version)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Result != nil && m.Result.Success():
		status += readyStyle.Render(m.Result.String())
	case m.Result != nil:
		status += failedStyle.Render(m.Result.String())
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render("testing")
	}
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + m.Source.URL))
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = max(m.Width-30, 10)
	}
	filled := min(int(float64(barWidth)*progress), barWidth)

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	eta := ""
	if m.EstimatedRemaining > 0 {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d%%%s\n", bar, int(progress*100), eta)
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Stages"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		icon, style := phaseIcon(phase, m.SpinnerFrame)
		dur := ""
		switch {
		case phase.Duration > 0:
			dur = formatDuration(phase.Duration)
		case phase.Active && !phase.StartedAt.IsZero():
			dur = formatDuration(m.clock().Sub(phase.StartedAt))
		}
		fmt.Fprintf(b, "    %s %-18s %s\n", style(icon), style(phase.Name), dimStyle.Render(dur))
	}
}

func renderFailure(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Failure"))
	b.WriteString("\n")
	fmt.Fprintf(b, "    %s [%s] %s\n",
		failedStyle.Render(crossMark), m.Result.Stage, dimStyle.Render(m.Result.Reason))
}

func renderFooter(b *strings.Builder, m Model) {
	parts := []string{fmt.Sprintf("elapsed: %s", formatDuration(m.clock().Sub(m.StartTime)))}
	if m.Result != nil && m.Result.RunID != "" {
		parts = append(parts, "run: "+m.Result.RunID)
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s  |  q: quit", strings.Join(parts, "  |  "))))
	b.WriteString("\n")
}

func phaseIcon(p StagePhase, frame int) (string, styleFunc) {
	switch {
	case p.Err != nil:
		return crossMark, sf(failedStyle)
	case p.Done:
		return checkMark, sf(readyStyle)
	case p.Active:
		return currentSpinner(frame), sf(activeStyle)
	case p.Skipped:
		return skipped, sf(dimStyle)
	default:
		return pending, sf(dimStyle)
	}
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// calculateProgress weights each stage by its typical duration.
func calculateProgress(m Model) float64 {
	if m.Result != nil && m.Result.Success() {
		return 1.0
	}

	weights := map[string]float64{
		"sync":      0.10,
		"spec-load": 0.05,
		"install":   0.40,
		"build":     0.45,
	}

	var progress float64
	for _, p := range m.Phases {
		if p.Done {
			progress += weights[p.Key]
		}
	}
	return min(progress, 1.0)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
