package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type rowKind int

const (
	rowNormal rowKind = iota
	rowActive
	rowDimmed
)

type row struct {
	cells []string
	kind  rowKind
}

// Table is a bordered, column-aligned table. Cells may contain ANSI styling.
type Table struct {
	title      string
	headers    []string
	rows       []row
	hideHeader bool
	minWidth   int
}

// NewTable creates a table with one column per header
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// SetTitle sets a centered title above the columns
func (t *Table) SetTitle(title string) { t.title = title }

// HideHeader drops the column header row
func (t *Table) HideHeader() { t.hideHeader = true }

// SetMinWidth widens the last column until the table is at least width wide
func (t *Table) SetMinWidth(width int) { t.minWidth = width }

// AddRow appends a plain row. Extra cells are dropped and missing ones left blank.
func (t *Table) AddRow(cells ...string) { t.add(cells, rowNormal) }

// AddActiveRow appends a highlighted row, used for the linked version
func (t *Table) AddActiveRow(cells ...string) { t.add(cells, rowActive) }

// AddDimmedRow appends a grayed-out row, used for installations that cannot be linked
func (t *Table) AddDimmedRow(cells ...string) { t.add(cells, rowDimmed) }

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) add(cells []string, kind rowKind) {
	r := make([]string, len(t.headers))
	copy(r, cells)
	t.rows = append(t.rows, row{cells: r, kind: kind})
}

// widths returns the padded width of each column, honoring minWidth
func (t *Table) widths() ([]int, int) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range t.rows {
		for i, c := range r.cells {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	total := 0
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}
	if t.minWidth > total {
		widths[len(widths)-1] += t.minWidth - total
		total = t.minWidth
	}
	return widths, total
}

// Render returns the table as a string, or "" when it has no columns
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	initStyles()

	widths, total := t.widths()
	rule := func(n int) string { return StyleMuted.Render(strings.Repeat("─", n)) }

	var lines []string
	if t.title != "" {
		title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Width(total).Align(lipgloss.Center)
		lines = append(lines, title.Render(t.title), rule(total))
	}

	if !t.hideHeader {
		lines = append(lines, joinCells(t.headers, widths, styleHeader))
		lines = append(lines, rule(total))
	}

	for _, r := range t.rows {
		style := styleCell
		switch r.kind {
		case rowActive:
			style = style.Foreground(colorLinked)
		case rowDimmed:
			style = style.Foreground(colorMuted)
		}
		lines = append(lines, joinCells(r.cells, widths, style))
	}

	return styleBorder.Render(strings.Join(lines, "\n"))
}

func joinCells(cells []string, widths []int, style lipgloss.Style) string {
	var b strings.Builder
	for i, c := range cells {
		b.WriteString(style.Width(widths[i]).Render(c))
	}
	return b.String()
}
