package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmPrompt asks a y/N question before a destructive action.
type confirmPrompt struct {
	input   textinput.Model
	subject string
	active  bool
}

func newConfirmPrompt() confirmPrompt {
	input := textinput.New()
	input.Placeholder = "y/N"
	input.CharLimit = 3
	input.Width = 10
	return confirmPrompt{input: input}
}

// Open starts asking about subject.
func (c *confirmPrompt) Open(subject string) tea.Cmd {
	c.subject = subject
	c.active = true
	c.input.SetValue("")
	c.input.Focus()
	return textinput.Blink
}

// Update feeds a key to the prompt. done is set once the user answered;
// yes reports the answer.
func (c *confirmPrompt) Update(msg tea.KeyMsg) (done, yes bool, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		c.close()
		return true, false, nil
	case "enter":
		answer := strings.ToLower(strings.TrimSpace(c.input.Value()))
		c.close()
		return true, answer == "y" || answer == "yes", nil
	}
	c.input, cmd = c.input.Update(msg)
	return false, false, cmd
}

func (c *confirmPrompt) close() {
	c.active = false
	c.input.Blur()
}

func (c confirmPrompt) View() string {
	var b strings.Builder
	b.WriteString(warningStyle.Render(fmt.Sprintf("Delete %s?", c.subject)))
	b.WriteString("\n\n")
	b.WriteString(c.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("Type 'y' and press Enter to confirm, Esc to cancel."))
	b.WriteString("\n")
	return b.String()
}
