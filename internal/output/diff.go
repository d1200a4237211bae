package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// UnifiedDiff returns a unified diff turning from into to. Identical inputs
// yield an empty string.
func UnifiedDiff(fromName, toName, from, to string) string {
	if from == to {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(fromName), from, to)
	return fmt.Sprint(gotextdiff.ToUnified(fromName, toName, from, edits))
}

// DiffStats counts changed lines in a unified diff.
type DiffStats struct {
	Added   int
	Removed int
}

// CountDiff counts added and removed lines, ignoring file headers.
func CountDiff(diff string) DiffStats {
	var s DiffStats
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			s.Added++
		case strings.HasPrefix(line, "-"):
			s.Removed++
		}
	}
	return s
}

// RenderDiff colors a unified diff and appends a change summary.
func RenderDiff(diff string) string {
	if diff == "" {
		return diffSummary(DiffStats{}) + "\n"
	}

	added := lipgloss.NewStyle().Foreground(ColorGreen)
	removed := lipgloss.NewStyle().Foreground(ColorRed)
	hunk := lipgloss.NewStyle().Foreground(ColorCyan)

	var sb strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			sb.WriteString(StyleSummary.Render(body))
		case strings.HasPrefix(body, "@@"):
			sb.WriteString(hunk.Render(body))
		case strings.HasPrefix(body, "+"):
			sb.WriteString(added.Render(body))
		case strings.HasPrefix(body, "-"):
			sb.WriteString(removed.Render(body))
		default:
			sb.WriteString(body)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(StyleSummary.Render(diffSummary(CountDiff(diff))))
	sb.WriteString("\n")
	return sb.String()
}

// diffSummary returns a summary string of changes.
func diffSummary(s DiffStats) string {
	if s.Added == 0 && s.Removed == 0 {
		return "No changes"
	}

	parts := make([]string, 0, 2)
	if s.Added > 0 {
		parts = append(parts, pluralize(s.Added, "line")+" added")
	}
	if s.Removed > 0 {
		parts = append(parts, pluralize(s.Removed, "line")+" removed")
	}
	return strings.Join(parts, ", ")
}

// pluralize returns "N item" or "N items" appropriately.
func pluralize(count int, label string) string {
	if count != 1 {
		label += "s"
	}
	return strconv.Itoa(count) + " " + label
}
