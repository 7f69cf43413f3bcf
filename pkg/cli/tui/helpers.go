package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"webslayer-go/pkg/backend"
	"webslayer-go/pkg/utils"
)

// requestTimeout bounds one-off backend calls issued from the UI. Job
// polling has its own timeout in the backend client.
const requestTimeout = 30 * time.Second

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// renderEmptyState renders a standard empty state message
func renderEmptyState(message string) string {
	return "\n" + mutedStyle.Render(message) + "\n"
}

// renderLoadingState renders a standard loading message
func renderLoadingState(message string) string {
	return "\n" + infoStyle.Render(message) + "\n"
}

// renderList renders a selectable list of names with navigation markers.
// detail, when non-nil, adds a muted second line under each entry.
func renderList(names []string, selected int, title string, detail func(i int) string) string {
	var b strings.Builder
	b.WriteString(renderTitle(title))

	for i, name := range names {
		marker := " "
		var style lipgloss.Style
		if i == selected {
			marker = selectedMarkerStyle.Render("→")
			style = selectedStyle
		} else {
			style = itemTitleStyle
		}

		b.WriteString(fmt.Sprintf("%s %s\n", marker, style.Render(name)))
		if detail != nil {
			if d := detail(i); d != "" {
				b.WriteString(fmt.Sprintf("  %s\n", urlStyle.Render(d)))
			}
		}
	}

	b.WriteString("\n")
	return b.String()
}

// renderField renders one "Label: value" line.
func renderField(label, value string) string {
	return fieldLabelStyle.Render(label+":") + " " + value + "\n"
}

// wrapText wraps text to a specified width, breaking at word boundaries
func wrapText(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + "\n"
	}

	var b strings.Builder
	line := ""
	for _, word := range words {
		if len(line)+len(word)+1 > width {
			b.WriteString(fmt.Sprintf("%s%s\n", indent, line))
			line = word
		} else {
			if line != "" {
				line += " "
			}
			line += word
		}
	}
	if line != "" {
		b.WriteString(fmt.Sprintf("%s%s\n", indent, line))
	}
	return b.String()
}

// previewLines keeps the first n lines of s.
func previewLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:n], "\n") + "\n" + mutedStyle.Render(fmt.Sprintf("... %d more lines", len(lines)-n))
}

// handleListNavigation handles common navigation keys for list views (up/down/j/k)
// Returns the new selected index and whether navigation occurred
func handleListNavigation(key string, selected int, total int) (newSelected int, handled bool) {
	switch key {
	case "up", "k":
		if selected > 0 {
			return selected - 1, true
		}
		return selected, true
	case "down", "j":
		if selected < total-1 {
			return selected + 1, true
		}
		return selected, true
	}
	return selected, false
}

// renderInlineError renders an error message inline (without full error view formatting)
func renderInlineError(err error) string {
	if err == nil {
		return ""
	}
	return renderError(userFacingError(err).Error())
}

// userFacingError converts backend request errors and validation failures
// into friendly messages, while leaving other error types unchanged.
func userFacingError(err error) error {
	if err == nil {
		return nil
	}

	if reqErr, ok := backend.AsRequestError(err); ok {
		return errors.New(reqErr.UserMessage())
	}

	var vErr *utils.ValidationError
	if errors.As(err, &vErr) {
		return errors.New(strings.TrimPrefix(vErr.Error(), "validation failed: "))
	}

	return err
}
