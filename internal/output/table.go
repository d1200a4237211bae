package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableStyle defines the style for table output.
type TableStyle struct {
	Border      lipgloss.Border
	BorderColor lipgloss.Color
	HeaderStyle lipgloss.Style
	CellStyle   lipgloss.Style
}

// DefaultTableStyle returns the default table style.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Border:      lipgloss.NormalBorder(),
		BorderColor: ColorDimGray,
		HeaderStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		CellStyle:   lipgloss.NewStyle(),
	}
}

// Table represents a styled table.
type Table struct {
	headers []string
	rows    [][]string
	style   TableStyle
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		style:   DefaultTableStyle(),
	}
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// SetStyle sets the table style.
func (t *Table) SetStyle(style TableStyle) *Table {
	t.style = style
	return t
}

// String renders the table as a string.
func (t *Table) String() string {
	tbl := table.New().
		Border(t.style.Border).
		BorderStyle(lipgloss.NewStyle().Foreground(t.style.BorderColor)).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.style.HeaderStyle
			}
			return t.style.CellStyle
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}

	return tbl.String()
}

// RenderModuleTable renders graph entries as a MODULE / KIND / PATH table.
func RenderModuleTable(modules []ModuleEntry) string {
	t := NewTable("MODULE", "KIND", "PATH")
	for _, m := range modules {
		t.Row(m.Name, KindStyle(m.Kind).Render(m.Kind), m.Path)
	}
	return t.String()
}
