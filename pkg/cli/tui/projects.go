package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/format"
	"webslayer-go/pkg/models"
)

type projectSavedMsg struct {
	project *models.Project
	err     error
}

// projectBrowserModel lists saved projects and moves them in and out of the
// job draft.
type projectBrowserModel struct {
	app      *app.App
	step     browserStep
	projects []models.Project
	selected int
	loading  bool
	err      error
	message  string
	confirm  confirmPrompt

	naming    bool
	nameInput textinput.Model
}

func newProjectBrowser(a *app.App) *projectBrowserModel {
	nameInput := textinput.New()
	nameInput.Placeholder = "project name"
	nameInput.CharLimit = 100
	nameInput.Width = 40

	return &projectBrowserModel{
		app:       a,
		loading:   true,
		confirm:   newConfirmPrompt(),
		nameInput: nameInput,
	}
}

func (m *projectBrowserModel) Init() tea.Cmd {
	return m.load()
}

func (m *projectBrowserModel) load() tea.Cmd {
	b := m.app.Backend
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		projects, err := b.ListProjects(ctx)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m *projectBrowserModel) CapturingInput() bool {
	return m.confirm.active || m.naming
}

func (m *projectBrowserModel) current() *models.Project {
	if m.selected < len(m.projects) {
		return &m.projects[m.selected]
	}
	return nil
}

func (m *projectBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.projects = msg.projects
		m.step = stepList
		if m.selected >= len(m.projects) {
			m.selected = max(len(m.projects)-1, 0)
		}
		return m, nil

	case projectLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		draft := msg.draft
		return m, func() tea.Msg { return openJobFormMsg{draft: draft} }

	case projectSavedMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		m.message = "Saved project " + msg.project.Name
		return m, m.load()

	case submitErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case submitSuccessMsg:
		m.loading = false
		return m, func() tea.Msg { return openMonitorMsg{} }

	case deleteErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case deleteSuccessMsg:
		m.message = "Deleted project " + msg.name
		return m, m.load()

	case tea.KeyMsg:
		switch {
		case m.confirm.active:
			done, yes, cmd := m.confirm.Update(msg)
			if done && yes {
				return m, m.delete(m.confirm.subject)
			}
			return m, cmd
		case m.naming:
			return m.updateNaming(msg)
		case m.loading:
			return m, nil
		}
		return m.handleKey(msg.String())
	}

	if m.naming {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *projectBrowserModel) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.naming = false
		m.nameInput.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.err = fmt.Errorf("project name is required")
			return m, nil
		}
		m.naming = false
		m.nameInput.Blur()
		m.loading = true
		m.err = nil
		projects := m.app.Projects
		return m, func() tea.Msg {
			ctx, cancel := requestContext()
			defer cancel()
			p, err := projects.SaveDraft(ctx, name)
			return projectSavedMsg{project: p, err: err}
		}
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *projectBrowserModel) handleKey(key string) (tea.Model, tea.Cmd) {
	m.err = nil
	projects := m.app.Projects
	switch key {
	case "r":
		m.loading = true
		m.message = ""
		return m, m.load()
	case "s":
		m.naming = true
		m.message = ""
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		return m, textinput.Blink
	}

	p := m.current()
	switch key {
	case "d":
		if p != nil {
			return m, m.confirm.Open(p.Name)
		}
		return m, nil
	case "l":
		if p == nil {
			return m, nil
		}
		name := p.Name
		m.loading = true
		return m, func() tea.Msg {
			ctx, cancel := requestContext()
			defer cancel()
			draft, err := projects.Load(ctx, name)
			return projectLoadedMsg{draft: draft, err: err}
		}
	case "g":
		if p == nil {
			return m, nil
		}
		name := p.Name
		m.loading = true
		return m, func() tea.Msg {
			ctx, cancel := requestContext()
			defer cancel()
			created, err := projects.Run(ctx, name)
			if err != nil {
				return submitErrorMsg{err: err}
			}
			return submitSuccessMsg{created: created}
		}
	}

	if m.step == stepDetail {
		if key == "b" || key == "backspace" {
			m.step = stepList
		}
		return m, nil
	}

	if newSelected, handled := handleListNavigation(key, m.selected, len(m.projects)); handled {
		m.selected = newSelected
		return m, nil
	}
	if key == "enter" && p != nil {
		m.step = stepDetail
	}
	return m, nil
}

func (m *projectBrowserModel) delete(name string) tea.Cmd {
	m.loading = true
	b := m.app.Backend
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		if err := b.DeleteProject(ctx, name); err != nil {
			return deleteErrorMsg{err: err}
		}
		return deleteSuccessMsg{name: name}
	}
}

func (m *projectBrowserModel) View() string {
	var b strings.Builder

	switch {
	case m.confirm.active:
		b.WriteString(renderTitle("Delete Project"))
		b.WriteString(m.confirm.View())
		return b.String()
	case m.naming:
		b.WriteString(renderTitle("Save Draft as Project"))
		b.WriteString(m.nameInput.View() + "\n\n")
		if m.err != nil {
			b.WriteString(renderInlineError(m.err) + "\n\n")
		}
		b.WriteString(helpStyle.Render("Enter to save, Esc to cancel.") + "\n")
		return b.String()
	case m.loading:
		return renderLoadingState("Working...")
	}

	if p := m.current(); m.step == stepDetail && p != nil {
		b.WriteString(renderTitle("Project"))
		b.WriteString(format.ProjectDetails(*p))
		b.WriteString("\n" + helpStyle.Render("l load into form • g run • d delete • b back") + "\n")
	} else if len(m.projects) == 0 && m.err == nil {
		b.WriteString(renderTitle("Projects"))
		b.WriteString(renderEmptyState("No projects saved. Press 's' to save the current draft."))
	} else {
		names := make([]string, len(m.projects))
		for i, p := range m.projects {
			names[i] = p.Name
		}
		b.WriteString(renderList(names, m.selected, "Projects", func(i int) string {
			p := m.projects[i]
			return fmt.Sprintf("%s • %d url(s)", p.SchemaName, len(p.URLs))
		}))
		b.WriteString(helpStyle.Render("enter details • l load • g run • s save draft • d delete • r reload") + "\n")
	}

	if m.message != "" {
		b.WriteString("\n" + renderSuccess(m.message) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + renderInlineError(m.err) + "\n")
	}
	return b.String()
}
