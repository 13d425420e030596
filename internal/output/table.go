// Package output provides terminal output utilities for lui.
//
// This package includes:
//   - Table rendering for installation history and the batch queue
//   - Progress bars for batch drains
//   - Spinners for in-flight installs
//   - Human-readable formatting for sizes and timestamps
//
// Table rendering uses ASCII characters and ANSI color codes for terminal
// output. Progress indicators are thread-safe.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/installer"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/queue"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/store"
)

// ANSI color codes for status display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderHistoryTable renders the install ledger, oldest attempt first.
func RenderHistoryTable(records []*store.HistoryRecord) string {
	if len(records) == 0 {
		return "No installation history.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-28s %-9s %-10s %-8s %-14s %s\n",
		"File", "Type", "Status", "Size", "When", "Message"))
	sb.WriteString(strings.Repeat("─", 100))
	sb.WriteString("\n")

	for _, rec := range records {
		size := "-"
		if rec.SizeBytes > 0 {
			size = humanize.Bytes(uint64(rec.SizeBytes))
		}
		sb.WriteString(fmt.Sprintf("%-28s %-9s %-10s %-8s %-14s %s\n",
			truncate(filepath.Base(rec.SourcePath), 28),
			rec.Format,
			colorizeStatus(rec.Status),
			size,
			formatRelativeTime(rec.FinishedAt),
			truncate(rec.Message, 40)))
	}

	sb.WriteString(fmt.Sprintf("\n%d attempt(s) recorded.\n", len(records)))
	return sb.String()
}

// RenderQueueTable renders the batch worklist in drain order.
func RenderQueueTable(items []*queue.Item) string {
	if len(items) == 0 {
		return "Queue is empty.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-4s %-32s %-9s %s\n",
		"#", "File", "State", "Result"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for i, item := range items {
		result := "-"
		if item.Outcome != nil {
			result = string(item.Outcome.Status)
			if item.Outcome.Message != "" {
				result += ": " + truncate(item.Outcome.Message, 30)
			}
		}
		sb.WriteString(fmt.Sprintf("%-4d %-32s %-9s %s\n",
			i+1,
			truncate(filepath.Base(item.Path), 32),
			string(item.Status),
			result))
	}

	return sb.String()
}

// RenderOutcome renders a one-attempt summary for the install command.
func RenderOutcome(outcome *installer.Outcome) string {
	var sb strings.Builder

	name := filepath.Base(outcome.Request.SourcePath)
	switch outcome.Status {
	case installer.StatusSuccess:
		sb.WriteString(fmt.Sprintf("%s %s\n", colorize(colorGreen, "✓"), name))
	case installer.StatusTimedOut, installer.StatusCancelled:
		sb.WriteString(fmt.Sprintf("%s %s\n", colorize(colorYellow, "⚠"), name))
	default:
		sb.WriteString(fmt.Sprintf("%s %s\n", colorize(colorRed, "✗"), name))
	}

	sb.WriteString(fmt.Sprintf("  Type:   %s\n", outcome.Request.Format))
	sb.WriteString(fmt.Sprintf("  Status: %s\n", colorizeStatus(string(outcome.Status))))
	if outcome.SizeBytes > 0 {
		sb.WriteString(fmt.Sprintf("  Size:   %s\n", humanize.Bytes(uint64(outcome.SizeBytes))))
	}
	if outcome.SHA256 != "" {
		sb.WriteString(fmt.Sprintf("  SHA256: %s\n", outcome.SHA256))
	}
	if outcome.Message != "" {
		sb.WriteString(fmt.Sprintf("  %s\n", outcome.Message))
	}

	return sb.String()
}

// RenderToolTable renders doctor probe results, one row per external tool.
func RenderToolTable(tools []ToolStatus) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-10s %-10s %s\n", "Tool", "Found", "Needed for"))
	sb.WriteString(strings.Repeat("─", 56))
	sb.WriteString("\n")

	for _, tool := range tools {
		found := colorize(colorRed, "missing")
		if tool.Found {
			found = colorize(colorGreen, "yes")
		} else if tool.Optional {
			found = colorize(colorGray, "missing")
		}
		sb.WriteString(fmt.Sprintf("%-10s %-10s %s\n", tool.Name, found, tool.Purpose))
	}

	return sb.String()
}

// ToolStatus is one doctor probe result.
type ToolStatus struct {
	Name     string
	Found    bool
	Optional bool
	Purpose  string
}

func colorizeStatus(status string) string {
	switch status {
	case string(installer.StatusSuccess):
		return colorize(colorGreen, status)
	case string(installer.StatusFailed):
		return colorize(colorRed, status)
	case string(installer.StatusTimedOut), string(installer.StatusCancelled):
		return colorize(colorYellow, status)
	default:
		return status
	}
}

// formatRelativeTime formats a time as a relative duration (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	duration := time.Since(t)
	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		minutes := int(duration.Minutes())
		return fmt.Sprintf("%d min ago", minutes)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case duration < 30*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case duration < 365*24*time.Hour:
		months := int(duration.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := int(duration.Hours() / 24 / 365)
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
