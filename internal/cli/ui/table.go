package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// palette holds the table and header colors, disabled when noColor is set
type palette struct {
	title *color.Color
	rule  *color.Color
	key   *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		title: color.New(color.Bold, color.FgCyan),
		rule:  color.New(color.FgHiBlack),
		key:   color.New(color.FgCyan),
	}
	if noColor {
		p.title.DisableColor()
		p.rule.DisableColor()
		p.key.DisableColor()
	}
	return p
}

// Table renders rows as aligned columns under a ruled header. Widths are
// counted in runes so box-drawing and accented names line up.
type Table struct {
	w       io.Writer
	columns []string
	rows    [][]string
	colors  palette
}

// NewTable creates a table with the given column titles
func NewTable(w io.Writer, noColor bool, columns ...string) *Table {
	return &Table{w: w, columns: columns, colors: newPalette(noColor)}
}

// AddRow appends a row. Missing cells render empty, extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table. A table without columns writes nothing.
func (t *Table) Render() {
	if len(t.columns) == 0 {
		return
	}

	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = utf8.RuneCountInString(c)
	}
	for _, row := range t.rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], utf8.RuneCountInString(row[i]))
		}
	}

	t.writeLine(widths, func(i int) string { return t.colors.title.Sprint(padRight(t.columns[i], widths[i])) })
	t.writeLine(widths, func(i int) string { return t.colors.rule.Sprint(strings.Repeat("─", widths[i])) })
	for _, row := range t.rows {
		t.writeLine(widths, func(i int) string {
			if i >= len(row) {
				return padRight("", widths[i])
			}
			return padRight(row[i], widths[i])
		})
	}
}

func (t *Table) writeLine(widths []int, cell func(i int) string) {
	parts := make([]string, len(widths))
	for i := range widths {
		parts[i] = cell(i)
	}
	fmt.Fprintln(t.w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// KeyValueTable renders "key: value" lines with the values aligned
type KeyValueTable struct {
	w      io.Writer
	pairs  [][2]string
	colors palette
}

// NewKeyValueTable creates an empty key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{w: w, colors: newPalette(noColor)}
}

// AddRow appends a pair
func (t *KeyValueTable) AddRow(key, value string) {
	t.pairs = append(t.pairs, [2]string{key, value})
}

// Render writes the pairs in insertion order
func (t *KeyValueTable) Render() {
	width := 0
	for _, p := range t.pairs {
		width = max(width, utf8.RuneCountInString(p[0])+1)
	}
	for _, p := range t.pairs {
		t.colors.key.Fprint(t.w, padRight(p[0]+":", width))
		fmt.Fprintf(t.w, " %s\n", p[1])
	}
}

// Header writes title underlined to its width
func Header(w io.Writer, title string, noColor bool) {
	colors := newPalette(noColor)
	colors.title.Fprintln(w, title)
	colors.rule.Fprintln(w, strings.Repeat("─", utf8.RuneCountInString(title)))
}
