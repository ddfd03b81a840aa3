package tui

import (
	"fmt"
	"strings"

	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// RenderSummary formats a job snapshot (in any state) as a plain-text report,
// printed by modelhostctl after a submit, status or terminate request — the
// non-interactive counterpart to the teacher's SummaryModel screen.
func RenderSummary(snap jobapi.Snapshot) string {
	var s strings.Builder

	s.WriteString(borderStyle.Render(logoStyle.Render(asciiLogo)))
	s.WriteString("\n")
	s.WriteString(stateStyle(string(snap.State)).Bold(true).Render(string(snap.State)))
	s.WriteString("\n\n")

	if snap.Message != "" {
		s.WriteString(metaStyle.Render("message: ") + snap.Message + "\n")
	}
	if snap.Stats != nil {
		if snap.Stats.PeakMemoryUsage > 0 {
			s.WriteString(metaStyle.Render("peak memory: ") + formatBytes(snap.Stats.PeakMemoryUsage) + "\n")
		}
	}
	if snap.Exception != nil {
		s.WriteString("\n" + errText.Bold(true).Render("exception: "+snap.Exception.Msg) + "\n")
		if snap.Exception.DeveloperMsg != "" && snap.Exception.DeveloperMsg != snap.Exception.Msg {
			s.WriteString(subtext.Render(snap.Exception.DeveloperMsg) + "\n")
		}
	}
	if len(snap.Results) > 0 {
		s.WriteString("\n" + successText.Bold(true).Render(fmt.Sprintf("results: %d port(s)", len(snap.Results))) + "\n")
		for portID := range snap.Results {
			s.WriteString("  - " + portID + "\n")
		}
	}

	return s.String()
}
