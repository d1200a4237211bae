package output

import "strings"

// OutputFormat specifies the output format.
type OutputFormat string

const (
	// FormatYAML outputs in YAML format.
	FormatYAML OutputFormat = "yaml"

	// FormatJSON outputs in JSON format.
	FormatJSON OutputFormat = "json"

	// FormatTable outputs in table format.
	FormatTable OutputFormat = "table"

	// FormatTree outputs module names as a tree of dotted segments.
	FormatTree OutputFormat = "tree"
)

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTable, FormatTree:
		return true
	default:
		return false
	}
}

// ParseOutputFormat parses a string into an OutputFormat.
// Returns FormatTable if the string is empty or invalid.
func ParseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML
	case "json":
		return FormatJSON
	case "tree":
		return FormatTree
	default:
		return FormatTable
	}
}

// ValidFormats returns a slice of valid output format strings.
func ValidFormats() []string {
	return []string{"table", "tree", "yaml", "json"}
}
