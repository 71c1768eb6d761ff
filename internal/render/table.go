package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const (
	columnGap = "  "
	// Text columns are never squeezed below this many cells.
	minColumnWidth = 4
	ellipsis       = "…"
)

// columns holds the cell width and alignment of every table column.
type columns struct {
	widths []int
	right  map[int]bool
}

// layoutTable aligns headers and rows into columns. When maxWidth is positive,
// left-aligned columns give up space, widest first, until the table fits.
// Right-aligned columns hold numbers and bars and are never cut.
func layoutTable(headers []string, rows [][]string, right map[int]bool, maxWidth int) []string {
	cols := measureColumns(headers, rows, right)
	if len(cols.widths) == 0 {
		return nil
	}
	if maxWidth > 0 {
		cols.shrink(maxWidth)
	}
	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, cols.line(headers))
	}
	for _, row := range rows {
		lines = append(lines, cols.line(row))
	}
	return lines
}

func measureColumns(headers []string, rows [][]string, right map[int]bool) *columns {
	cols := &columns{right: right}
	grow := func(cells []string) {
		for i, cell := range cells {
			if i == len(cols.widths) {
				cols.widths = append(cols.widths, 0)
			}
			cols.widths[i] = max(cols.widths[i], displayWidth(cell))
		}
	}
	grow(headers)
	for _, row := range rows {
		grow(row)
	}
	return cols
}

func (c *columns) total() int {
	sum := len(columnGap) * (len(c.widths) - 1)
	for _, w := range c.widths {
		sum += w
	}
	return sum
}

func (c *columns) shrink(maxWidth int) {
	for excess := c.total() - maxWidth; excess > 0; excess-- {
		widest := -1
		for i, w := range c.widths {
			if c.right[i] || w <= minColumnWidth {
				continue
			}
			if widest < 0 || w > c.widths[widest] {
				widest = i
			}
		}
		if widest < 0 {
			return
		}
		c.widths[widest]--
	}
}

func (c *columns) line(cells []string) string {
	parts := make([]string, len(c.widths))
	for i, w := range c.widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if displayWidth(cell) > w {
			// Cells may already carry color escapes.
			cell = ansi.Truncate(cell, w, ellipsis)
		}
		parts[i] = padCell(cell, w, c.right[i])
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	pad := strings.Repeat(" ", max(width-displayWidth(value), 0))
	if rightAlign {
		return pad + value
	}
	return value + pad
}

// displayWidth measures terminal cells, ignoring ANSI escapes.
func displayWidth(value string) int {
	return lipgloss.Width(value)
}

// truncate shortens plain text to at most width cells.
func truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(value, width, ellipsis)
}
