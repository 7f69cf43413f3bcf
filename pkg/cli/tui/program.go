package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/poller"
)

// Bridge forwards job snapshots from the polling controller into a running
// program. Its OnChange is passed to app.Options before the program exists.
type Bridge struct {
	program atomic.Pointer[tea.Program]
}

// OnChange sends the snapshot to the attached program, if any. Send blocks
// until the event loop takes the message, so app services must not be called
// from inside Update.
func (b *Bridge) OnChange(s poller.Snapshot) {
	if p := b.program.Load(); p != nil {
		p.Send(JobUpdateMsg{Snapshot: s})
	}
}

// Attach sets the program to forward to; nil detaches.
func (b *Bridge) Attach(p *tea.Program) {
	b.program.Store(p)
}

// NewProgram builds the dashboard program around the root menu.
func NewProgram(a *app.App, opts ...tea.ProgramOption) *tea.Program {
	root := NewRootModel(a)
	wrapper := NewViewportWrapper(root, ViewportConfig{
		Title:       "WebSlayer",
		ShowHeader:  true,
		ShowFooter:  true,
		MinWidth:    60,
		MinHeight:   20,
		EnableHelp:  true,
		EnableMenu:  true,
		HelpContent: root.HelpContent,
	})
	return tea.NewProgram(wrapper, opts...)
}

// Run blocks until the user quits.
func Run(a *app.App, bridge *Bridge) error {
	p := NewProgram(a, tea.WithAltScreen())
	bridge.Attach(p)
	defer bridge.Attach(nil)

	_, err := p.Run()
	return err
}
