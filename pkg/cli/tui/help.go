package tui

import (
	"fmt"
	"strings"
)

// HelpItem represents a single keyboard shortcut and its description
type HelpItem struct {
	Key         string
	Description string
}

// CommonHelpContent returns help for common commands
func CommonHelpContent() string {
	items := []HelpItem{
		{"?", "Toggle help"},
		{"m", "Return to main menu"},
		{"q / Esc", "Quit application"},
		{"Ctrl+C", "Force quit"},
		{"PgUp / PgDn", "Scroll long views"},
	}
	return renderHelpItems(items)
}

// RootMenuHelpContent returns help for root menu
func RootMenuHelpContent() string {
	items := []HelpItem{
		{"1-4", "Select menu option (New job / Monitor / Schemas / Projects)"},
		{"q / Esc", "Quit"},
		{"?", "Show this help"},
	}
	return renderHelpItems(items)
}

// JobFormHelpContent returns help for the job form
func JobFormHelpContent() string {
	items := []HelpItem{
		{"Tab / ↓", "Next field"},
		{"Shift+Tab / ↑", "Previous field"},
		{"Enter", "Add URL (URL field) / Submit job (submit button)"},
		{"← / → / - / +", "Change value or selection"},
		{"Space", "Toggle option"},
		{"x / Delete", "Remove selected URL (URL list)"},
		{"Esc", "Leave text field / return to menu"},
	}
	return renderHelpItems(items)
}

// MonitorHelpContent returns help for the job monitor
func MonitorHelpContent() string {
	items := []HelpItem{
		{"s", "Save report as JSON"},
		{"x", "Save report as Excel"},
		{"n", "New job from current draft"},
		{"c", "Stop tracking this job"},
		{"m", "Return to menu"},
	}
	return renderHelpItems(items)
}

// SchemasHelpContent returns help for the schema browser
func SchemasHelpContent() string {
	items := []HelpItem{
		{"↑ / ↓ / j / k", "Navigate schema list"},
		{"Enter", "Show fields"},
		{"u", "Use schema in job form"},
		{"d", "Delete schema"},
		{"r", "Reload"},
		{"b / Backspace", "Go back"},
	}
	return renderHelpItems(items)
}

// ProjectsHelpContent returns help for the project browser
func ProjectsHelpContent() string {
	items := []HelpItem{
		{"↑ / ↓ / j / k", "Navigate project list"},
		{"Enter", "Show details"},
		{"l", "Load project into job form"},
		{"s", "Save current draft as project"},
		{"d", "Delete project"},
		{"r", "Reload"},
		{"b / Backspace", "Go back"},
	}
	return renderHelpItems(items)
}

// renderHelpItems formats help items into a readable string
func renderHelpItems(items []HelpItem) string {
	var b strings.Builder
	for _, item := range items {
		keyStyle := boldStyle.Foreground(colorPrimary)
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(item.Key),
			item.Description))
	}
	return b.String()
}
