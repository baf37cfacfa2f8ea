package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// topChildren is how many of the largest root children the summary shows.
const topChildren = 10

// PrettyFormatter formats a scan summary with colors and styling using
// lipgloss. It shows the scan metadata, the largest children of the root,
// and the final counters.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatLargest(r))
	w.WriteString(f.formatFooter(r))
	return nil
}

// formatHeader builds the header box with scan metadata.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	sourceLabel := LabelStyle.Render("Source:")
	sourceValue := ValueStyle.Render(r.Source)
	lines = append(lines, fmt.Sprintf("%s %s", sourceLabel, sourceValue))

	scannedLabel := LabelStyle.Render("Scanned:")
	scannedValue := ValueStyle.Render(fmt.Sprintf("%s files, %s dirs in %s",
		humanize.Comma(r.Stats.FilesProcessed),
		humanize.Comma(r.Stats.DirsProcessed),
		formatDuration(r.Stats.Elapsed)))
	lines = append(lines, fmt.Sprintf("%s %s", scannedLabel, scannedValue))

	if r.Stats.Errors > 0 {
		errorsLabel := LabelStyle.Render("Errors:")
		errorsValue := ErrorStyle.Render(humanize.Comma(r.Stats.Errors))
		lines = append(lines, fmt.Sprintf("%s %s", errorsLabel, errorsValue))
	}

	if r.Interrupted {
		interruptedStyle := WarningStyle.Bold(true)
		lines = append(lines, interruptedStyle.Render("Scan interrupted by user"))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatLargest builds the table of the largest direct children of the root.
func (f *PrettyFormatter) formatLargest(r *Result) string {
	if r.Root == nil || len(r.Root.Children) == 0 {
		return MutedStyle.Render("  Nothing found under the scan root\n")
	}

	children := r.Root.Children
	if len(children) > topChildren {
		children = children[:topChildren]
	}

	maxSizeWidth := 8
	for _, child := range children {
		if len(child.HumanSize) > maxSizeWidth {
			maxSizeWidth = len(child.HumanSize)
		}
	}

	var sb strings.Builder
	for _, child := range children {
		sizeStr := SizeStyle.Render(padLeft(child.HumanSize, maxSizeWidth))
		name := child.Name
		if child.IsDir() {
			name += "/"
		}
		sb.WriteString(fmt.Sprintf("  %s  %s\n", sizeStr, PathStyle.Render(name)))
	}
	return sb.String()
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	var parts []string

	var totalHuman string
	if r.Root != nil {
		totalHuman = r.Root.HumanSize
	}
	totalLabel := LabelStyle.Render("Total:")
	totalValue := SizeStyle.Render(totalHuman)
	parts = append(parts, fmt.Sprintf("%s %s", totalLabel, totalValue))

	bytesLabel := LabelStyle.Render("Bytes:")
	bytesValue := ValueStyle.Render(humanize.Comma(r.Stats.BytesCounted))
	parts = append(parts, fmt.Sprintf("%s %s", bytesLabel, bytesValue))

	hint := MutedStyle.Render("Use --format html for the interactive map")
	parts = append(parts, hint)

	return FooterBox.Render(strings.Join(parts, "  "))
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
