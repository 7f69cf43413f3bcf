package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/format"
	"webslayer-go/pkg/models"
	"webslayer-go/pkg/state"
)

type browserStep int

const (
	stepList browserStep = iota
	stepDetail
)

// schemaBrowserModel lists schemas and shows their fields.
type schemaBrowserModel struct {
	app      *app.App
	step     browserStep
	names    []string
	selected int
	schema   *models.Schema
	loading  bool
	err      error
	message  string
	confirm  confirmPrompt
}

func newSchemaBrowser(a *app.App) *schemaBrowserModel {
	return &schemaBrowserModel{
		app:     a,
		loading: true,
		confirm: newConfirmPrompt(),
	}
}

func (m *schemaBrowserModel) Init() tea.Cmd {
	return m.load()
}

func (m *schemaBrowserModel) load() tea.Cmd {
	b := m.app.Backend
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		names, err := b.ListSchemas(ctx)
		return schemaNamesLoadedMsg{names: names, err: err}
	}
}

func (m *schemaBrowserModel) CapturingInput() bool {
	return m.confirm.active
}

func (m *schemaBrowserModel) selectedName() string {
	if m.selected < len(m.names) {
		return m.names[m.selected]
	}
	return ""
}

func (m *schemaBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case schemaNamesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.names = msg.names
		m.step = stepList
		if m.selected >= len(m.names) {
			m.selected = max(len(m.names)-1, 0)
		}
		return m, nil

	case schemaLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.schema = msg.schema
		m.step = stepDetail
		return m, nil

	case deleteErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case deleteSuccessMsg:
		m.message = "Deleted schema " + msg.name
		m.schema = nil
		return m, m.load()

	case tea.KeyMsg:
		if m.confirm.active {
			done, yes, cmd := m.confirm.Update(msg)
			if done && yes {
				return m, m.delete(m.confirm.subject)
			}
			return m, cmd
		}
		if m.loading {
			return m, nil
		}
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m *schemaBrowserModel) handleKey(key string) (tea.Model, tea.Cmd) {
	m.err = nil
	switch key {
	case "r":
		m.loading = true
		m.message = ""
		return m, m.load()
	case "d":
		if name := m.selectedName(); name != "" {
			return m, m.confirm.Open(name)
		}
		return m, nil
	case "u":
		name := m.selectedName()
		if name == "" {
			return m, nil
		}
		draft := m.app.Store.UpdateDraft(func(d *state.Draft) { d.SchemaName = name })
		return m, func() tea.Msg { return openJobFormMsg{draft: draft} }
	}

	if m.step == stepDetail {
		switch key {
		case "b", "backspace":
			m.step = stepList
		}
		return m, nil
	}

	if newSelected, handled := handleListNavigation(key, m.selected, len(m.names)); handled {
		m.selected = newSelected
		return m, nil
	}
	if key == "enter" {
		if name := m.selectedName(); name != "" {
			m.loading = true
			m.message = ""
			b := m.app.Backend
			return m, func() tea.Msg {
				ctx, cancel := requestContext()
				defer cancel()
				s, err := b.GetSchema(ctx, name)
				return schemaLoadedMsg{schema: s, err: err}
			}
		}
	}
	return m, nil
}

func (m *schemaBrowserModel) delete(name string) tea.Cmd {
	m.loading = true
	b := m.app.Backend
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		if err := b.DeleteSchema(ctx, name); err != nil {
			return deleteErrorMsg{err: err}
		}
		return deleteSuccessMsg{name: name}
	}
}

func (m *schemaBrowserModel) View() string {
	var b strings.Builder

	switch {
	case m.confirm.active:
		b.WriteString(renderTitle("Delete Schema"))
		b.WriteString(m.confirm.View())
		return b.String()
	case m.loading:
		return renderLoadingState("Loading schemas...")
	}

	if m.step == stepDetail && m.schema != nil {
		b.WriteString(renderTitle("Schema"))
		b.WriteString(format.SchemaFields(*m.schema))
		b.WriteString("\n" + helpStyle.Render("u use in job • d delete • b back") + "\n")
	} else if len(m.names) == 0 && m.err == nil {
		b.WriteString(renderTitle("Schemas"))
		b.WriteString(renderEmptyState("No schemas defined. Use 'webslayer schemas apply -f <file>' to add one."))
	} else {
		b.WriteString(renderList(m.names, m.selected, "Schemas", nil))
		b.WriteString(helpStyle.Render("enter fields • u use in job • d delete • r reload") + "\n")
	}

	if m.message != "" {
		b.WriteString("\n" + renderSuccess(m.message) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + renderInlineError(m.err) + "\n")
	}
	return b.String()
}
