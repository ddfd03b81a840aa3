// Command modelhost-monitor is a terminal dashboard that polls a running
// modelhost's HTTP facade and renders the current job's execution state live,
// the way the teacher's bubbletea dashboard rendered a load test in progress.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Amr-9/modelhost/internal/tui"
)

func main() {
	var addr string
	flag.StringVar(&addr, "addr", "http://127.0.0.1:8080", "Base URL of the modelhost to monitor")
	flag.Parse()

	client := tui.NewClient(addr)
	p := tea.NewProgram(tui.NewMonitorModel(client))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "modelhost-monitor: %v\n", err)
		os.Exit(1)
	}
}
