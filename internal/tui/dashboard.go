package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Amr-9/modelhost/pkg/jobapi"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinnerFrame(tick int) string {
	return spinnerFrames[tick%len(spinnerFrames)]
}

// renderDashboard builds the full-screen view for a MonitorModel, mirroring
// the teacher's boxed header / divider / metrics-box layout (internal/tui/dashboard.go)
// but driven by a jobapi.Snapshot instead of a load-test Report.
func renderDashboard(m MonitorModel) string {
	var s strings.Builder

	headerContent := logoStyle.Render(asciiLogo) + "\n" +
		subtitleStyle.Render("model execution host monitor")
	s.WriteString(headerBoxStyle.Render(headerContent))
	s.WriteString("\n\n")

	if m.fetchErr != nil {
		s.WriteString(errText.Render(fmt.Sprintf("connection error: %v", m.fetchErr)))
		s.WriteString("\n\n" + subtext.Render("retrying every "+pollInterval.String()+"... press q to quit"))
		return s.String()
	}

	snap := m.snap
	badge := stateStyle(string(snap.State)).Bold(true).Render(string(snap.State))
	elapsed := time.Since(m.start).Round(time.Second)
	s.WriteString(fmt.Sprintf("%s %s  %s",
		targetStyle.Render("job state:"), badge,
		metaStyle.Render(fmt.Sprintf("│ watching for %s │ %s", elapsed, spinnerFrame(m.tick)))))
	s.WriteString("\n\n")

	s.WriteString(dividerStyle.Render(strings.Repeat("━", 70)))
	s.WriteString("\n")

	pct := 0.0
	if snap.Progress != nil {
		pct = *snap.Progress
	}
	if snap.State == jobapi.Complete {
		pct = 1.0
	}
	s.WriteString(m.prog.ViewAs(pct))
	s.WriteString("\n")
	if snap.Message != "" {
		s.WriteString(infoText.Render(snap.Message))
		s.WriteString("\n")
	}
	s.WriteString(dividerStyle.Render(strings.Repeat("━", 70)))
	s.WriteString("\n\n")

	s.WriteString(renderStatsBox(snap))
	s.WriteString("\n\n")

	if snap.Exception != nil {
		s.WriteString(errText.Bold(true).Render("✗ exception: " + snap.Exception.Msg))
		s.WriteString("\n\n")
	}

	s.WriteString(lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Render("log (last 10)"))
	s.WriteString("\n")
	s.WriteString(renderLogTail(snap.Log, 10))

	s.WriteString("\n" + subtext.Render("press q to quit"))
	return s.String()
}

func renderStatsBox(snap jobapi.Snapshot) string {
	peak, p50, p99 := "n/a", "n/a", "n/a"
	if snap.Stats != nil {
		if snap.Stats.PeakMemoryUsage > 0 {
			peak = formatBytes(snap.Stats.PeakMemoryUsage)
		}
		if snap.Stats.JobDurationP50Ms > 0 {
			p50 = fmtDuration(time.Duration(snap.Stats.JobDurationP50Ms) * time.Millisecond)
		}
		if snap.Stats.JobDurationP99Ms > 0 {
			p99 = fmtDuration(time.Duration(snap.Stats.JobDurationP99Ms) * time.Millisecond)
		}
	}

	content := fmt.Sprintf("%s\n%s %s\n%s %s\n%s %s",
		lipgloss.NewStyle().Foreground(purpleColor).Bold(true).Render("stats"),
		metaStyle.Render("peak memory:"), successText.Render(peak),
		metaStyle.Render("job duration p50:"), successText.Render(p50),
		metaStyle.Render("job duration p99:"), successText.Render(p99))

	return dashBoxStyle.Copy().BorderForeground(purpleColor).Render(content)
}

func renderLogTail(log []jobapi.LogEntry, n int) string {
	if len(log) == 0 {
		return subtext.Render("  (no log entries yet)") + "\n"
	}
	start := 0
	if len(log) > n {
		start = len(log) - n
	}
	var s strings.Builder
	for _, entry := range log[start:] {
		style := infoText
		switch entry.Level {
		case jobapi.Warning:
			style = warnText
		case jobapi.Error, jobapi.Critical, jobapi.Stderr:
			style = errText
		case jobapi.Debug:
			style = subtext
		}
		s.WriteString(fmt.Sprintf("  %s %s %s\n",
			metaStyle.Render(entry.Timestamp),
			style.Render(fmt.Sprintf("[%s]", entry.Level)),
			entry.Message))
	}
	return s.String()
}
