package tui

import (
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/format"
	"webslayer-go/pkg/export"
	"webslayer-go/pkg/poller"
)

const reportPreviewLines = 20

// monitorModel shows the tracked job as the controller reports it.
type monitorModel struct {
	app  *app.App
	snap poller.Snapshot
	now  time.Time

	saving  bool
	saved   string
	saveErr error
}

func newMonitor(a *app.App) *monitorModel {
	return &monitorModel{
		app:  a,
		snap: a.Store.Job(),
		now:  time.Now(),
	}
}

func (m *monitorModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case JobUpdateMsg:
		if msg.Snapshot.JobID != m.snap.JobID {
			m.saved, m.saveErr = "", nil
		}
		m.snap = msg.Snapshot
		return m, nil

	case tickMsg:
		m.now = time.Now()
		return m, tick()

	case reportSavedMsg:
		m.saving = false
		m.saved, m.saveErr = msg.path, msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s":
			return m, m.save(export.FormatJSON)
		case "x":
			return m, m.save(export.FormatXLSX)
		case "c":
			jobs := m.app.Jobs
			return m, func() tea.Msg {
				jobs.Clear()
				return nil
			}
		case "n":
			draft := m.app.Store.Draft()
			return m, func() tea.Msg { return openJobFormMsg{draft: draft} }
		}
	}
	return m, nil
}

// save writes the finished report to the working directory.
func (m *monitorModel) save(f export.Format) tea.Cmd {
	if m.saving || m.snap.State != poller.StateSucceeded || m.snap.ReportName == "" {
		return nil
	}
	m.saving = true
	reports := m.app.Reports
	name := m.snap.ReportName
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		dl, err := reports.Download(ctx, name, f)
		if err != nil {
			return reportSavedMsg{err: err}
		}
		if err := os.WriteFile(dl.Filename, dl.Data, 0o644); err != nil {
			return reportSavedMsg{err: err}
		}
		return reportSavedMsg{path: dl.Filename}
	}
}

func (m *monitorModel) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("Job Monitor"))

	snap := m.snap
	if snap.JobID == "" {
		b.WriteString(renderEmptyState("No job is being tracked. Press 'n' to start one."))
		return b.String()
	}

	b.WriteString(renderField("Job ID", idStyle.Render(snap.JobID)))
	b.WriteString(renderField("State", stateStyle(string(snap.State)).Render(string(snap.State))))
	if snap.Status != "" {
		b.WriteString(renderField("Status", string(snap.Status)))
	}
	b.WriteString(renderField("Polls", strconv.Itoa(snap.Polls)))
	if !snap.StartedAt.IsZero() {
		end := m.now
		if snap.State.Terminal() {
			end = snap.UpdatedAt
		}
		b.WriteString(renderField("Elapsed", format.FormatElapsed(end.Sub(snap.StartedAt))))
	}

	switch snap.State {
	case poller.StateLoading, poller.StatePolling:
		b.WriteString("\n" + infoStyle.Render("Waiting for the backend...") + "\n")
	case poller.StateFailed:
		b.WriteString("\n" + renderError("Job failed") + "\n")
		b.WriteString(wrapText(snap.Error, 72, "  "))
	case poller.StateSucceeded:
		b.WriteString("\n" + renderSuccess("Job completed") + "\n\n")
		b.WriteString(renderField("Report", snap.ReportName))
		if snap.Report == nil {
			b.WriteString(renderWarning("Report content unavailable") + "\n")
		} else {
			body, err := export.JSON(snap.Report)
			if err != nil {
				b.WriteString(renderInlineError(err) + "\n")
			} else {
				b.WriteString(reportBoxStyle.Render(previewLines(string(body), reportPreviewLines)) + "\n")
			}
		}
	}

	switch {
	case m.saving:
		b.WriteString(renderLoadingState("Saving report..."))
	case m.saveErr != nil:
		b.WriteString("\n" + renderInlineError(m.saveErr) + "\n")
	case m.saved != "":
		b.WriteString("\n" + renderSuccess("Saved "+m.saved) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("s save json • x save xlsx • n new job • c clear") + "\n")
	return b.String()
}
