package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"webslayer-go/pkg/cli/logger"
)

// inputCapturer is implemented by models that are editing text. While it
// reports true, the wrapper leaves single-letter shortcuts to the model.
type inputCapturer interface {
	CapturingInput() bool
}

// ViewportWrapper wraps a model with viewport and common command support
type ViewportWrapper struct {
	model    tea.Model
	viewport viewport.Model
	width    int
	height   int
	config   ViewportConfig

	// Common commands
	showHelp    bool
	helpContent string
}

// ViewportConfig configures the wrapper behavior
type ViewportConfig struct {
	Title       string
	ShowHeader  bool
	ShowFooter  bool
	MinWidth    int           // Minimum terminal width
	MinHeight   int           // Minimum terminal height
	EnableHelp  bool          // Enable '?' for help
	EnableMenu  bool          // Enable 'm' to return to menu
	HelpContent func() string // Function to generate help text
}

// NewViewportWrapper creates a new wrapper around a model
func NewViewportWrapper(model tea.Model, config ViewportConfig) *ViewportWrapper {
	vp := viewport.New(80, 20)
	// Arrow keys belong to the wrapped model; the viewport only pages.
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	return &ViewportWrapper{
		model:    model,
		viewport: vp,
		config:   config,
		width:    80, // Default
		height:   24, // Default
	}
}

func (w *ViewportWrapper) Init() tea.Cmd {
	if w.model == nil {
		return nil
	}
	return w.model.Init()
}

func (w *ViewportWrapper) capturing() bool {
	c, ok := w.model.(inputCapturer)
	return ok && c.CapturingInput()
}

func (w *ViewportWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height

		// Validate minimum size
		if w.config.MinWidth > 0 && w.width < w.config.MinWidth {
			w.width = w.config.MinWidth
		}
		if w.config.MinHeight > 0 && w.height < w.config.MinHeight {
			w.height = w.config.MinHeight
		}
		w.calculateLayout()
		logger.Log("ViewportWrapper: resized to %dx%d, viewport=%dx%d", w.width, w.height, w.viewport.Width, w.viewport.Height)

		var cmd tea.Cmd
		if w.model != nil {
			w.model, cmd = w.model.Update(msg)
		}
		return w, cmd

	case tea.KeyMsg:
		keyStr := msg.String()

		// If help is showing, only handle help-related keys
		if w.showHelp {
			switch keyStr {
			case "ctrl+c":
				return w, tea.Quit
			case "?", "esc", "q":
				w.showHelp = false
			}
			return w, nil
		}

		if keyStr == "ctrl+c" {
			return w, tea.Quit
		}

		if !w.capturing() {
			switch keyStr {
			case "?":
				if w.config.EnableHelp {
					w.showHelp = true
					if w.config.HelpContent != nil {
						w.helpContent = w.config.HelpContent()
					}
					return w, nil
				}
			case "m":
				if w.config.EnableMenu {
					return w, func() tea.Msg { return MenuNavigationMsg{} }
				}
			case "q", "esc":
				return w, tea.Quit
			}
		}
	}

	// Forward all other messages to wrapped model
	var cmd tea.Cmd
	if w.model != nil {
		w.model, cmd = w.model.Update(msg)
	}

	var vpCmd tea.Cmd
	w.viewport, vpCmd = w.viewport.Update(msg)
	return w, tea.Batch(cmd, vpCmd)
}

func (w *ViewportWrapper) View() string {
	if w.showHelp {
		return w.renderHelpOverlay()
	}

	content := ""
	if w.model != nil {
		content = w.model.View()
	}

	w.calculateLayout()
	w.viewport.SetContent(content)
	content = w.viewport.View()

	var parts []string
	if w.config.ShowHeader {
		parts = append(parts, w.renderHeader())
	}
	parts = append(parts, content)
	if w.config.ShowFooter {
		parts = append(parts, w.renderFooter())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (w *ViewportWrapper) calculateLayout() {
	headerH := 0
	if w.config.ShowHeader {
		headerH = 3
	}
	footerH := 0
	if w.config.ShowFooter {
		footerH = 1
	}

	if w.width <= 0 {
		w.width = 80
	}
	if w.height <= 0 {
		w.height = 24
	}
	contentH := w.height - headerH - footerH
	if contentH < 1 {
		contentH = 1
	}
	w.viewport.Width = w.width
	w.viewport.Height = contentH
}

func (w *ViewportWrapper) renderHeader() string {
	var b strings.Builder

	if w.config.Title != "" {
		b.WriteString(renderTitle(w.config.Title))
	}
	b.WriteString(renderDivider(min(w.width, 60)))
	return b.String()
}

func (w *ViewportWrapper) renderFooter() string {
	shortcuts := []string{}

	if w.capturing() {
		shortcuts = append(shortcuts, "esc leave field", "ctrl+c quit")
		return helpStyle.Render(strings.Join(shortcuts, " • "))
	}
	if w.config.EnableHelp {
		shortcuts = append(shortcuts, "? help")
	}
	if w.config.EnableMenu {
		shortcuts = append(shortcuts, "m menu")
	}
	shortcuts = append(shortcuts, "pgup/pgdn scroll", "q quit")

	return helpStyle.Render(strings.Join(shortcuts, " • "))
}

func (w *ViewportWrapper) renderHelpOverlay() string {
	helpText := w.helpContent
	if helpText == "" {
		helpText = "No help available"
	}

	overlayStyle := lipgloss.NewStyle().
		Width(w.width-4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	title := titleStyle.Render("Keyboard Shortcuts")
	common := boldStyle.Render("Everywhere") + "\n" + CommonHelpContent()
	closeHint := helpStyle.Render("Press '?' or Esc to close")

	return overlayStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, helpText, "", common, closeHint),
	)
}
