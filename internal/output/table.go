package output

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Align is the horizontal alignment of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table is an ASCII grid of rows under a header.
type Table struct {
	headers []string
	align   []Align
	rows    [][]string
	widths  []int
}

// NewTable creates a table with the given headers. Columns are left aligned.
func NewTable(headers ...string) *Table {
	t := &Table{
		headers: headers,
		align:   make([]Align, len(headers)),
		widths:  make([]int, len(headers)),
	}
	for i, h := range headers {
		t.widths[i] = displayWidth(h)
	}
	return t
}

// AlignRight right-aligns the given columns, typically numbers.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		if c >= 0 && c < len(t.align) {
			t.align[c] = AlignRight
		}
	}
	return t
}

// AddRow adds a row. Missing cells are blank and extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
	for i, cell := range row {
		t.widths[i] = max(t.widths[i], displayWidth(cell))
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render returns the table with a separator after every row.
func (t *Table) Render() string {
	return t.render(true)
}

// RenderCompact returns the table with separators only around the header
// and at the bottom.
func (t *Table) RenderCompact() string {
	return t.render(false)
}

// WriteTo writes the compact rendering to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.RenderCompact())
	return int64(n), err
}

func (t *Table) render(ruled bool) string {
	if len(t.headers) == 0 {
		return ""
	}
	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\n")
	}

	line(t.separator("-"))
	line(t.row(t.headers))
	line(t.separator("="))
	for _, r := range t.rows {
		line(t.row(r))
		if ruled {
			line(t.separator("-"))
		}
	}
	if !ruled {
		line(t.separator("-"))
	}
	return sb.String()
}

// separator renders +-----+-----+ with fill.
func (t *Table) separator(fill string) string {
	parts := make([]string, len(t.widths))
	for i, w := range t.widths {
		parts[i] = strings.Repeat(fill, w+2)
	}
	return "+" + strings.Join(parts, "+") + "+"
}

// row renders | val | val |.
func (t *Table) row(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = " " + pad(cell, t.widths[i], t.align[i]) + " "
	}
	return "|" + strings.Join(parts, "|") + "|"
}

// displayWidth counts runes, ignoring ANSI escape codes.
func displayWidth(s string) int {
	return utf8.RuneCountInString(stripANSI(s))
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pad(s string, width int, align Align) string {
	gap := width - displayWidth(s)
	if gap <= 0 {
		return s
	}
	if align == AlignRight {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// TruncateCell shortens a cell to maxWidth runes. Color codes are dropped
// from truncated cells.
func TruncateCell(text string, maxWidth int) string {
	stripped := stripANSI(text)
	if utf8.RuneCountInString(stripped) <= maxWidth {
		return text
	}
	return Truncate(stripped, maxWidth)
}
