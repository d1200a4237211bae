package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Use these instead of inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: module names and paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen marks first-party modules and added diff lines.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow marks vendor modules.
	ColorYellow = lipgloss.Color("220")

	// ColorRed marks removed diff lines.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed marks unresolved modules (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (module names, paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (bundling, watching).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Module kinds shown by the graph command.
const (
	KindFirstParty = "first-party"
	KindVendor     = "vendor"
	KindShadowed   = "shadowed"
	KindUnresolved = "unresolved"
)

// KindStyle returns the style for a module kind. Unknown kinds are
// unstyled.
func KindStyle(kind string) lipgloss.Style {
	switch kind {
	case KindFirstParty:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case KindVendor:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case KindShadowed:
		return lipgloss.NewStyle().Faint(true)
	case KindUnresolved:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minModuleColumnWidth keeps the kind column aligned.
const minModuleColumnWidth = 40

// FormatModuleLine renders "m:<name>" with a right-aligned, color-coded
// kind.
func FormatModuleLine(name, kind string) string {
	padding := minModuleColumnWidth - len(name)
	if padding < 2 {
		padding = 2
	}
	return StyleDim.Render("m:") + StyleNoun.Render(name) + strings.Repeat(" ", padding) + KindStyle(kind).Render(kind)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatBundleSummary renders the line printed after a bundle is written.
func FormatBundleSummary(path string, modules, rewrites int) string {
	return FormatCheckmark(fmt.Sprintf("%s %s (%s, %s)",
		StyleAction.Render("bundled"),
		StyleNoun.Render(path),
		pluralize(modules, "module"),
		pluralize(rewrites, "rewrite"),
	))
}
