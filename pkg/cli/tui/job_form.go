package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/format"
	"webslayer-go/pkg/models"
	"webslayer-go/pkg/state"
	"webslayer-go/pkg/utils"
)

type formField int

const (
	fieldURLInput formField = iota
	fieldURLList
	fieldSchema
	fieldReturnList
	fieldCrawling
	fieldMaxDepth
	fieldMaxURLs
	fieldChunking
	fieldChunkSize
	fieldChunkOverlap
	fieldHallucination
	fieldMaxHallucination
	fieldQuality
	fieldMaxQuality
	fieldModelType
	fieldModelName
	fieldSubmit
	fieldCount
)

// Increments applied by -/+ on numeric fields.
const (
	stepMaxURLs      = 10
	stepChunkSize    = 1000
	stepChunkOverlap = 50
)

// jobFormModel edits the shared draft and submits it as a job.
type jobFormModel struct {
	app   *app.App
	draft state.Draft
	focus formField

	urlInput    textinput.Model
	modelInput  textinput.Model
	urlSelected int
	urlErr      error

	schemas        []string
	schemasErr     error
	loadingSchemas bool

	submitting bool
	err        error
}

func newJobForm(a *app.App, draft state.Draft) *jobFormModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://example.com"
	urlInput.CharLimit = 2048
	urlInput.Width = 60
	urlInput.Focus()

	modelInput := textinput.New()
	modelInput.Placeholder = "model name"
	modelInput.CharLimit = 200
	modelInput.Width = 40
	modelInput.SetValue(draft.LLM.ModelName)

	return &jobFormModel{
		app:            a,
		draft:          draft,
		urlInput:       urlInput,
		modelInput:     modelInput,
		loadingSchemas: true,
	}
}

func (m *jobFormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadSchemas())
}

func (m *jobFormModel) loadSchemas() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		names, err := a.Backend.ListSchemas(ctx)
		return schemaNamesLoadedMsg{names: names, err: err}
	}
}

// CapturingInput reports whether a text field has focus.
func (m *jobFormModel) CapturingInput() bool {
	return !m.submitting && (m.focus == fieldURLInput || m.focus == fieldModelName)
}

func (m *jobFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case schemaNamesLoadedMsg:
		m.loadingSchemas = false
		m.schemasErr = msg.err
		m.schemas = msg.names
		if m.draft.SchemaName == "" && len(m.schemas) > 0 {
			m.draft.SchemaName = m.schemas[0]
			m.save()
		}
		return m, nil

	case submitErrorMsg:
		m.submitting = false
		m.err = msg.err
		return m, nil

	case submitSuccessMsg:
		m.submitting = false
		return m, func() tea.Msg { return openMonitorMsg{} }

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m *jobFormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "tab", "down":
		return m, m.setFocus(m.focus + 1)
	case "shift+tab", "up":
		return m, m.setFocus(m.focus - 1)
	case "esc":
		if m.CapturingInput() {
			return m, m.setFocus(m.focus + 1)
		}
		return m, nil
	case "enter":
		switch m.focus {
		case fieldURLInput:
			m.addURL()
			return m, nil
		case fieldSubmit:
			return m, m.submit()
		default:
			return m, m.setFocus(m.focus + 1)
		}
	}

	switch m.focus {
	case fieldURLInput, fieldModelName:
		return m.updateInputs(msg)
	case fieldURLList:
		switch key {
		case "left", "h":
			if m.urlSelected > 0 {
				m.urlSelected--
			}
		case "right", "l":
			if m.urlSelected < len(m.draft.URLs)-1 {
				m.urlSelected++
			}
		case "x", "delete", "backspace":
			m.removeURL()
		}
	default:
		switch key {
		case "left", "h", "-":
			m.adjust(-1)
		case "right", "l", "+", "=":
			m.adjust(1)
		case " ":
			m.adjust(0)
		}
	}
	return m, nil
}

func (m *jobFormModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldURLInput:
		m.urlInput, cmd = m.urlInput.Update(msg)
	case fieldModelName:
		m.modelInput, cmd = m.modelInput.Update(msg)
		if name := strings.TrimSpace(m.modelInput.Value()); name != m.draft.LLM.ModelName {
			m.draft.LLM.ModelName = name
			m.save()
		}
	}
	return m, cmd
}

func (m *jobFormModel) setFocus(f formField) tea.Cmd {
	m.focus = (f + fieldCount) % fieldCount
	m.urlInput.Blur()
	m.modelInput.Blur()
	switch m.focus {
	case fieldURLInput:
		m.urlInput.Focus()
		return textinput.Blink
	case fieldModelName:
		m.modelInput.Focus()
		return textinput.Blink
	}
	return nil
}

func (m *jobFormModel) addURL() {
	u, err := utils.ValidateURL(m.urlInput.Value())
	if err != nil {
		m.urlErr = err
		return
	}
	m.urlErr = nil
	m.urlInput.SetValue("")
	if slices.Contains(m.draft.URLs, u) {
		return
	}
	m.draft.URLs = append(m.draft.URLs, u)
	m.urlSelected = len(m.draft.URLs) - 1
	m.save()
}

func (m *jobFormModel) removeURL() {
	if len(m.draft.URLs) == 0 {
		return
	}
	i := min(m.urlSelected, len(m.draft.URLs)-1)
	m.draft.URLs = slices.Delete(m.draft.URLs, i, i+1)
	if m.urlSelected >= len(m.draft.URLs) && m.urlSelected > 0 {
		m.urlSelected--
	}
	m.save()
}

// adjust changes the focused setting. dir is -1 or 1 for numbers and
// selections; any direction flips a toggle.
func (m *jobFormModel) adjust(dir int) {
	d := &m.draft
	switch m.focus {
	case fieldSchema:
		if len(m.schemas) == 0 {
			return
		}
		i := slices.Index(m.schemas, d.SchemaName)
		d.SchemaName = m.schemas[cycle(i, dir, len(m.schemas))]
	case fieldReturnList:
		d.ReturnSchemaList = !d.ReturnSchemaList
	case fieldCrawling:
		d.CrawlConfig.EnableCrawling = !d.CrawlConfig.EnableCrawling
	case fieldMaxDepth:
		d.CrawlConfig.MaxDepth += dir
	case fieldMaxURLs:
		d.CrawlConfig.MaxURLs += dir * stepMaxURLs
	case fieldChunking:
		d.CrawlConfig.EnableChunking = !d.CrawlConfig.EnableChunking
	case fieldChunkSize:
		d.CrawlConfig.ChunkSize += dir * stepChunkSize
	case fieldChunkOverlap:
		d.CrawlConfig.ChunkOverlap += dir * stepChunkOverlap
	case fieldHallucination:
		d.ScraperConfig.EnableHallucinationCheck = !d.ScraperConfig.EnableHallucinationCheck
	case fieldMaxHallucination:
		d.ScraperConfig.MaxHallucinationChecks += dir
	case fieldQuality:
		d.ScraperConfig.EnableQualityCheck = !d.ScraperConfig.EnableQualityCheck
	case fieldMaxQuality:
		d.ScraperConfig.MaxQualityChecks += dir
	case fieldModelType:
		i := slices.Index(models.ModelTypes, d.LLM.ModelType)
		d.LLM.ModelType = models.ModelTypes[cycle(i, dir, len(models.ModelTypes))]
	default:
		return
	}
	m.save()
}

// cycle moves i by dir within [0, n), wrapping around. An unknown index
// starts from the first entry.
func cycle(i, dir, n int) int {
	if i < 0 {
		return 0
	}
	if dir == 0 {
		dir = 1
	}
	return (i + dir + n) % n
}

// save clamps the local draft and writes it to the shared store.
func (m *jobFormModel) save() {
	m.draft = m.app.Store.ReplaceDraft(m.draft)
}

func (m *jobFormModel) submit() tea.Cmd {
	m.save()
	m.submitting = true
	m.err = nil
	jobs := m.app.Jobs
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		created, err := jobs.Submit(ctx, nil)
		if err != nil {
			return submitErrorMsg{err: err}
		}
		return submitSuccessMsg{created: created}
	}
}

func (m *jobFormModel) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("New Scraping Job"))

	b.WriteString(boldStyle.Render("Targets") + "\n")
	b.WriteString(m.line(fieldURLInput, "Add URL", m.urlInput.View()))
	if m.urlErr != nil {
		b.WriteString("    " + renderInlineError(m.urlErr) + "\n")
	}
	b.WriteString(m.line(fieldURLList, "URLs", m.renderURLs()))
	b.WriteString(m.line(fieldSchema, "Schema", m.renderSchema()))
	b.WriteString(m.line(fieldReturnList, "Return list", checkbox(m.draft.ReturnSchemaList)))

	crawl := m.draft.CrawlConfig
	b.WriteString("\n" + boldStyle.Render("Crawling") + "\n")
	b.WriteString(m.line(fieldCrawling, "Follow links", checkbox(crawl.EnableCrawling)))
	b.WriteString(m.line(fieldMaxDepth, "Max depth", m.number(fieldMaxDepth, crawl.MaxDepth)))
	b.WriteString(m.line(fieldMaxURLs, "Max URLs", m.number(fieldMaxURLs, crawl.MaxURLs)))
	b.WriteString(m.line(fieldChunking, "Chunking", checkbox(crawl.EnableChunking)))
	b.WriteString(m.line(fieldChunkSize, "Chunk size", m.number(fieldChunkSize, crawl.ChunkSize)))
	b.WriteString(m.line(fieldChunkOverlap, "Chunk overlap", m.number(fieldChunkOverlap, crawl.ChunkOverlap)))

	sc := m.draft.ScraperConfig
	b.WriteString("\n" + boldStyle.Render("Quality checks") + "\n")
	b.WriteString(m.line(fieldHallucination, "Hallucination", checkbox(sc.EnableHallucinationCheck)))
	b.WriteString(m.line(fieldMaxHallucination, "Max attempts", m.number(fieldMaxHallucination, sc.MaxHallucinationChecks)))
	b.WriteString(m.line(fieldQuality, "Quality", checkbox(sc.EnableQualityCheck)))
	b.WriteString(m.line(fieldMaxQuality, "Max attempts", m.number(fieldMaxQuality, sc.MaxQualityChecks)))

	b.WriteString("\n" + boldStyle.Render("Model") + "\n")
	b.WriteString(m.line(fieldModelType, "Provider", m.selection(fieldModelType, string(m.draft.LLM.ModelType))))
	b.WriteString(m.line(fieldModelName, "Model", m.modelInput.View()))

	b.WriteString("\n")
	submit := "[ Submit job ]"
	if m.focus == fieldSubmit {
		b.WriteString(selectedMarkerStyle.Render("→ ") + selectedStyle.Render(submit) + "\n")
	} else {
		b.WriteString("  " + mutedStyle.Render(submit) + "\n")
	}

	if m.submitting {
		b.WriteString(renderLoadingState("Submitting job..."))
	}
	if m.err != nil {
		b.WriteString("\n" + renderInlineError(m.err) + "\n")
	}
	return b.String()
}

func (m *jobFormModel) line(f formField, label, value string) string {
	marker := "  "
	if m.focus == f {
		marker = selectedMarkerStyle.Render("→ ")
	}
	return marker + fieldLabelStyle.Render(fmt.Sprintf("%-14s", label+":")) + value + "\n"
}

func (m *jobFormModel) renderURLs() string {
	if len(m.draft.URLs) == 0 {
		return mutedStyle.Render("(none)")
	}
	parts := make([]string, len(m.draft.URLs))
	for i, u := range m.draft.URLs {
		u = format.TruncateURL(u, 40)
		if m.focus == fieldURLList && i == m.urlSelected {
			parts[i] = selectedStyle.Render("[" + u + "]")
		} else {
			parts[i] = urlStyle.Render(u)
		}
	}
	return strings.Join(parts, ", ")
}

func (m *jobFormModel) renderSchema() string {
	switch {
	case m.loadingSchemas:
		return infoStyle.Render("loading...")
	case m.schemasErr != nil:
		return renderInlineError(m.schemasErr)
	case len(m.schemas) == 0:
		return renderWarning("no schemas defined")
	case m.draft.SchemaName == "":
		return mutedStyle.Render("(none)")
	}
	return m.selection(fieldSchema, m.draft.SchemaName)
}

func (m *jobFormModel) number(f formField, v int) string {
	return m.selection(f, fmt.Sprintf("%d", v))
}

func (m *jobFormModel) selection(f formField, v string) string {
	if m.focus == f {
		return selectedStyle.Render("‹ " + v + " ›")
	}
	return v
}

func checkbox(on bool) string {
	if on {
		return successStyle.Render("[x]")
	}
	return "[ ]"
}
