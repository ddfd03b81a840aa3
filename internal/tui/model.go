package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// pollInterval is how often MonitorModel re-fetches the snapshot.
const pollInterval = 500 * time.Millisecond

// MonitorModel is the bubbletea model behind cmd/modelhost-monitor: it polls
// a running modelhost's GET / endpoint and renders the current job's
// execution state as a live dashboard, the way the teacher's MainModel
// polled its own in-process Monitor on a tick (internal/tui/model.go).
type MonitorModel struct {
	client   *Client
	start    time.Time
	tick     int
	prog     progress.Model
	snap     jobapi.Snapshot
	fetchErr error
	quitting bool
}

// NewMonitorModel builds a MonitorModel polling client.
func NewMonitorModel(client *Client) MonitorModel {
	return MonitorModel{
		client: client,
		start:  time.Now(),
		prog: progress.New(
			progress.WithScaledGradient("#00FFFF", "#FF6B9D"),
			progress.WithoutPercentage(),
		),
	}
}

type snapshotMsg struct {
	snap jobapi.Snapshot
	err  error
}

type pollTickMsg time.Time

func (m MonitorModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick_())
}

func (m MonitorModel) fetch() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snap, err := m.client.Fetch(ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m MonitorModel) tick_() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollTickMsg(t) })
}

func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
	case pollTickMsg:
		m.tick++
		return m, tea.Batch(m.fetch(), m.tick_())
	case snapshotMsg:
		m.fetchErr = msg.err
		if msg.err == nil {
			m.snap = msg.snap
		}
	}
	return m, nil
}

func (m MonitorModel) View() string {
	if m.quitting {
		return "Exiting...\n"
	}
	return renderDashboard(m)
}
