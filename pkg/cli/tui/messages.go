package tui

import (
	"webslayer-go/pkg/models"
	"webslayer-go/pkg/poller"
	"webslayer-go/pkg/state"
)

// MenuNavigationMsg returns the root shell to its menu.
type MenuNavigationMsg struct{}

// JobUpdateMsg carries a snapshot from the polling controller.
type JobUpdateMsg struct {
	Snapshot poller.Snapshot
}

// openJobFormMsg switches to the job form, showing draft.
type openJobFormMsg struct {
	draft state.Draft
}

// openMonitorMsg switches to the job monitor.
type openMonitorMsg struct{}

type schemaNamesLoadedMsg struct {
	names []string
	err   error
}

type schemaLoadedMsg struct {
	schema *models.Schema
	err    error
}

type projectsLoadedMsg struct {
	projects []models.Project
	err      error
}

type projectLoadedMsg struct {
	draft state.Draft
	err   error
}

type submitErrorMsg struct {
	err error
}

type submitSuccessMsg struct {
	created *models.JobCreationResponse
}

type deleteErrorMsg struct {
	err error
}

type deleteSuccessMsg struct {
	name string
}

type reportSavedMsg struct {
	path string
	err  error
}

type tickMsg struct{}
