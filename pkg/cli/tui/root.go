package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/format"
)

// rootModel is the Bubble Tea model that acts as an app shell for multiple flows.
// It presents a simple menu and then hands control to a specific flow model.
type rootModel struct {
	app *app.App

	// Current active flow (when nil, we are in the main menu)
	current tea.Model
	size    *tea.WindowSizeMsg
}

// NewRootModel constructs the root app-shell model that can launch multiple flows.
func NewRootModel(a *app.App) *rootModel {
	return &rootModel{app: a}
}

func (m *rootModel) Init() tea.Cmd {
	return nil
}

// CapturingInput reports whether the active flow is editing text.
func (m *rootModel) CapturingInput() bool {
	c, ok := m.current.(inputCapturer)
	return ok && c.CapturingInput()
}

// HelpContent returns the shortcuts of the active flow.
func (m *rootModel) HelpContent() string {
	switch m.current.(type) {
	case *jobFormModel:
		return JobFormHelpContent()
	case *monitorModel:
		return MonitorHelpContent()
	case *schemaBrowserModel:
		return SchemasHelpContent()
	case *projectBrowserModel:
		return ProjectsHelpContent()
	}
	return RootMenuHelpContent()
}

func (m *rootModel) open(flow tea.Model) (tea.Model, tea.Cmd) {
	m.current = flow
	cmds := []tea.Cmd{flow.Init()}
	if m.size != nil {
		size := *m.size
		cmds = append(cmds, func() tea.Msg { return size })
	}
	return m, tea.Batch(cmds...)
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MenuNavigationMsg:
		m.current = nil
		return m, nil
	case openJobFormMsg:
		return m.open(newJobForm(m.app, msg.draft))
	case openMonitorMsg:
		return m.open(newMonitor(m.app))
	case tea.WindowSizeMsg:
		m.size = &msg
	}

	// If we have an active flow, delegate all messages to it.
	if m.current != nil {
		var cmd tea.Cmd
		m.current, cmd = m.current.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "1":
			return m.open(newJobForm(m.app, m.app.Store.Draft()))
		case "2":
			return m.open(newMonitor(m.app))
		case "3":
			return m.open(newSchemaBrowser(m.app))
		case "4":
			return m.open(newProjectBrowser(m.app))
		}
	}

	return m, nil
}

func (m *rootModel) View() string {
	// When a flow is active, defer to its view.
	if m.current != nil {
		return m.current.View()
	}

	var b strings.Builder

	b.WriteString(boldStyle.Render("Select an action:") + "\n\n")
	b.WriteString("  " + selectedMarkerStyle.Render("1)") + " New scraping job\n")
	b.WriteString("  " + selectedMarkerStyle.Render("2)") + " Monitor current job\n")
	b.WriteString("  " + selectedMarkerStyle.Render("3)") + " Schemas\n")
	b.WriteString("  " + selectedMarkerStyle.Render("4)") + " Projects\n")
	b.WriteString("\n")

	if job := m.app.Store.Job(); job.JobID != "" {
		b.WriteString(fieldLabelStyle.Render("Current job:") + " ")
		b.WriteString(stateStyle(string(job.State)).Render(format.JobLine(job)) + "\n\n")
	} else {
		b.WriteString(mutedStyle.Render("No job running.") + "\n\n")
	}

	b.WriteString(renderField("Backend", m.app.Config.Backend.BaseURL))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press the number of an option, or 'q' / Esc to quit.") + "\n")

	return b.String()
}
