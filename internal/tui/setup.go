package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// SetupModel is an interactive huh form that builds a jobapi.Request, used by
// modelhostctl when invoked with no -model flag — the interactive counterpart
// to flag-driven submission, in the same step-by-step style as the teacher's
// load-test configuration wizard (internal/tui/setup.go), narrowed to the
// four fields a submit actually needs.
type SetupModel struct {
	req       jobapi.Request
	portsJSON string
	logLevel  string
	done      bool
	aborted   bool
	form      *huh.Form
}

// NewSetupModel builds a SetupModel pre-filled with defaults.
func NewSetupModel() *SetupModel {
	m := &SetupModel{
		portsJSON: "{}",
		logLevel:  string(jobapi.Info),
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Model ID").
				Placeholder("my-model").
				Value(&m.req.ModelID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("model id is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Log Level").
				Options(
					huh.NewOption("DEBUG", string(jobapi.Debug)),
					huh.NewOption("INFO", string(jobapi.Info)),
					huh.NewOption("WARNING", string(jobapi.Warning)),
					huh.NewOption("ERROR", string(jobapi.Error)),
				).
				Value(&m.logLevel),
			huh.NewConfirm().
				Title("Debug Mode").
				Value(&m.req.Debug),
			huh.NewText().
				Title("Port Bindings (JSON object)").
				Description(`e.g. {"inputStream": {"streamId": "s1"}}`).
				Value(&m.portsJSON).
				Validate(func(s string) error {
					var v map[string]json.RawMessage
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if err := json.Unmarshal([]byte(s), &v); err != nil {
						return fmt.Errorf("invalid JSON object: %w", err)
					}
					return nil
				}),
		),
	).WithTheme(MakeNeonTheme())
	return m
}

func (m *SetupModel) Init() tea.Cmd { return m.form.Init() }

func (m *SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		m.aborted = true
		return m, tea.Quit
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted && !m.done {
		m.done = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m *SetupModel) View() string {
	logo := logoStyle.Render(asciiLogo)
	subtitle := subtitleStyle.Render("submit a job")
	header := borderStyle.Render(logo + subtitle)
	return header + "\n\n" + m.form.View()
}

// Request finalizes and returns the jobapi.Request the form collected. Only
// valid once the program has exited with m.done true.
func (m *SetupModel) Request() (jobapi.Request, error) {
	m.req.LogLevel = jobapi.LogLevel(m.logLevel)
	if strings.TrimSpace(m.portsJSON) != "" {
		var ports map[string]json.RawMessage
		if err := json.Unmarshal([]byte(m.portsJSON), &ports); err != nil {
			return jobapi.Request{}, fmt.Errorf("parse port bindings: %w", err)
		}
		m.req.Ports = ports
	}
	return m.req, nil
}

// Aborted reports whether the user cancelled the form with ctrl+c.
func (m *SetupModel) Aborted() bool { return m.aborted }
