package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table formats columnar output. Widths are measured with lipgloss so cells
// carrying ANSI styling still line up.
type Table struct {
	w        io.Writer
	headers  []string
	rows     [][]string
	maxWidth map[int]int // column index -> max width (0 = unlimited)
	styles   map[int]func(string) string
}

// NewTable creates a table that writes to w with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		w:        w,
		headers:  headers,
		maxWidth: make(map[int]int),
		styles:   make(map[int]func(string) string),
	}
}

// SetMaxWidth sets the maximum display width for a column (0-indexed).
// Values exceeding the limit are truncated with "...".
func (t *Table) SetMaxWidth(col, width int) *Table {
	t.maxWidth[col] = width
	return t
}

// SetStyle applies fn to every cell of a column after truncation.
func (t *Table) SetStyle(col int, fn func(string) string) *Table {
	t.styles[col] = fn
	return t
}

// AddRow appends a data row. Extra values beyond the header count are ignored;
// missing values are filled with empty strings.
func (t *Table) AddRow(values ...string) {
	cells := make([]string, len(t.headers))
	for i := range cells {
		if i < len(values) {
			cell := t.truncate(i, values[i])
			if fn, ok := t.styles[i]; ok {
				cell = fn(cell)
			}
			cells[i] = cell
		}
	}
	t.rows = append(t.rows, cells)
}

// Render writes the table. A table without rows writes nothing.
func (t *Table) Render() error {
	if len(t.rows) == 0 {
		return nil
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	sep := make([]string, len(t.headers))
	for i, h := range t.headers {
		sep[i] = strings.Repeat("-", lipgloss.Width(h))
	}

	lines := append([][]string{t.headers, sep}, t.rows...)
	for _, line := range lines {
		if _, err := fmt.Fprintln(t.w, t.formatLine(line, widths)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) formatLine(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func (t *Table) truncate(col int, s string) string {
	limit, ok := t.maxWidth[col]
	r := []rune(s)
	if !ok || limit <= 0 || len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
