// Package report renders the outcome of a copy for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/joe/dircpy/pkg/dircpy"
	"github.com/joe/dircpy/pkg/errors"
)

// Summary describes a finished run.
type Summary struct {
	Source   string
	Dest     string
	Stats    dircpy.Stats
	Duration time.Duration
}

// RenderSummary renders a successful run.
func RenderSummary(theme Theme, summary Summary) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "%s\n\n", theme.Title.Render("Copy complete"))
	fmt.Fprintf(&builder, "%s %s\n", theme.Label.Render("From:"), summary.Source)
	fmt.Fprintf(&builder, "%s %s\n\n", theme.Label.Render("To:  "), summary.Dest)

	stats := summary.Stats
	fmt.Fprintf(&builder, "%s %d files (%s)\n",
		theme.Success.Render("Copied: "), stats.FilesCopied, FormatBytes(stats.BytesCopied))
	fmt.Fprintf(&builder, "%s %d\n", theme.Label.Render("Dirs:   "), stats.DirsCreated)

	if stats.FilesSkipped > 0 {
		fmt.Fprintf(&builder, "%s %d %s\n", theme.Warning.Render("Skipped:"), stats.FilesSkipped,
			theme.Dim.Render("(already present, not overwritten)"))
	}

	if stats.EntriesFiltered > 0 {
		fmt.Fprintf(&builder, "%s %d\n", theme.Dim.Render("Filtered:"), stats.EntriesFiltered)
	}

	fmt.Fprintf(&builder, "%s", theme.Dim.Render("Took "+FormatDuration(summary.Duration)))

	return theme.Box.Render(builder.String())
}

// RenderFailure renders a failed run with suggestions for the user.
// Work done before the failure stays in place, so the counts are shown too.
func RenderFailure(theme Theme, err error, stats dircpy.Stats) string {
	var builder strings.Builder

	failure := errors.NewEnricher().Enrich(err)

	fmt.Fprintf(&builder, "%s %s\n", theme.Error.Render("Copy failed:"), failure.Error())

	suggestions := failure.FormatSuggestions()
	if suggestions != "" {
		fmt.Fprintf(&builder, "%s\n", suggestions)
	}

	if stats != (dircpy.Stats{}) {
		fmt.Fprintf(&builder, "%s\n", theme.Dim.Render("Before the failure: "+stats.String()))
	}

	return builder.String()
}

// FormatBytes formats bytes into human-readable format (e.g., "1.5 MB")
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats duration into human-readable format (e.g., "2m 30s")
func FormatDuration(duration time.Duration) string {
	if duration < time.Second {
		return duration.Round(time.Millisecond).String()
	}

	duration = duration.Round(time.Second)
	hours := duration / time.Hour
	duration %= time.Hour
	minutes := duration / time.Minute
	duration %= time.Minute
	seconds := duration / time.Second

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}
