// Package format renders jobs, reports, schemas and projects as text for
// the CLI and the terminal UI.
package format

import (
	"fmt"
	"strings"
	"time"
)

// TruncateURL truncates a URL to the specified max length
func TruncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}

// ShortenID returns the first 8 characters of an id followed by "..."
func ShortenID(id string) string {
	if len(id) <= 11 {
		return id
	}
	return id[:8] + "..."
}

// FormatDate formats a time as a readable date string
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FormatElapsed renders a duration rounded to the second.
func FormatElapsed(d time.Duration) string {
	return d.Round(time.Second).String()
}

// JoinURLs lists urls on one line, eliding all but the first n.
func JoinURLs(urls []string, n int) string {
	if len(urls) <= n {
		return strings.Join(urls, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(urls[:n], ", "), len(urls)-n)
}

// FormatErrorMessage formats an error message consistently
func FormatErrorMessage(err error) string {
	return fmt.Sprintf("❌ Error: %v\n", err)
}

// FormatEmptyState formats an empty state message
func FormatEmptyState(message string) string {
	return fmt.Sprintf("\n%s\n", message)
}
