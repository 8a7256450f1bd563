// Package view renders catalogs, objects and history as tables for the CLI.
// Styled output uses bubbles tables inside lipgloss borders; plain output is
// aligned text for pipes and files.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Renderer turns rows into printable tables.
type Renderer struct {
	styled bool
	width  int // 0 = unlimited
}

// New creates a renderer. Styled renderers draw borders and colors; width
// caps the table width when positive.
func New(styled bool, width int) *Renderer {
	return &Renderer{styled: styled, width: width}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Table renders title, a header row and rows.
func (r *Renderer) Table(title string, header []string, rows [][]string) string {
	if len(rows) == 0 {
		return r.title(title) + "\n" + r.empty("(none)") + "\n"
	}
	widths := r.columnWidths(header, rows)
	if !r.styled {
		return r.plain(title, header, rows, widths)
	}

	columns := make([]table.Column, len(header))
	for i, h := range header {
		columns[i] = table.Column{Title: h, Width: widths[i]}
	}
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithHeight(len(rows)+2), // header and its border
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	// Nothing is selectable in a printed table.
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return r.title(title) + "\n" + frameStyle.Render(t.View()) + "\n"
}

// KeyValues renders a two-column listing.
func (r *Renderer) KeyValues(title string, pairs [][2]string) string {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p[0], p[1]}
	}
	return r.Table(title, []string{"Key", "Value"}, rows)
}

func (r *Renderer) title(s string) string {
	if r.styled {
		return titleStyle.Render(s)
	}
	return s
}

func (r *Renderer) empty(s string) string {
	if r.styled {
		return emptyStyle.Render("  " + s)
	}
	return "  " + s
}

// plain lays rows out like the list command output: two-space indent,
// dashed header underline.
func (r *Renderer) plain(title string, header []string, rows [][]string, widths []int) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	line := func(cells []string) {
		b.WriteString(" ")
		for i, c := range cells {
			if i == len(cells)-1 {
				fmt.Fprintf(&b, " %s", truncate(c, widths[i]))
				continue
			}
			fmt.Fprintf(&b, " %-*s ", widths[i], truncate(c, widths[i]))
		}
		b.WriteString("\n")
	}

	line(header)
	dashes := make([]string, len(header))
	for i, h := range header {
		dashes[i] = strings.Repeat("-", len(h))
	}
	line(dashes)
	for _, row := range rows {
		line(row)
	}
	return b.String()
}

// columnWidths sizes each column to its widest cell, then shrinks the
// widest columns until the total fits r.width.
func (r *Renderer) columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}
	if r.width <= 0 {
		return widths
	}

	// Cell padding and frame take three columns per cell plus two.
	budget := r.width - 2 - 3*len(widths)
	for total(widths) > budget {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 4 {
			break
		}
		widths[widest]--
	}
	return widths
}

func total(widths []int) int {
	n := 0
	for _, w := range widths {
		n += w
	}
	return n
}

func truncate(s string, width int) string {
	width = max(width, 0)
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 || len(runes) <= 1 {
		return string(runes[:min(width, len(runes))])
	}
	return string(runes[:min(width-1, len(runes))]) + "…"
}
