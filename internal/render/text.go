package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/verte-zerg/lareport/internal/model"
)

const (
	terminalWidthBackup = 80
	minTextWidth        = 30
	minSplitWidth       = 72
	splitSeparator      = " │ "
	cellBarWidth        = 12
	fullBlock           = "█"
	defaultShowMore     = "Show more"
)

// Without color, stacked segments are told apart by shade.
var segmentGlyphs = []string{"█", "▓", "▒", "░"}

// TextOptions controls the terminal renderer.
type TextOptions struct {
	// Width is the total line width; zero detects the terminal.
	Width      int
	ForceColor bool
	// ShowMore labels show-more rows.
	ShowMore string
}

type textRenderer struct {
	color    bool
	lip      *lipgloss.Renderer
	showMore string
}

// RenderText writes blocks as plain terminal text.
func RenderText(w io.Writer, blocks []model.Block, opts TextOptions) error {
	for _, line := range TextLines(w, blocks, opts) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// TextLines renders blocks to lines without writing them.
// The writer is only inspected for color support.
func TextLines(w io.Writer, blocks []model.Block, opts TextOptions) []string {
	width := opts.Width
	if width <= 0 {
		width = terminalWidth()
	}
	if width < minTextWidth {
		width = minTextWidth
	}
	r := textRenderer{
		color:    shouldUseColor(w, opts.ForceColor),
		showMore: opts.ShowMore,
	}
	if r.showMore == "" {
		r.showMore = defaultShowMore
	}
	if r.color {
		r.lip = lipgloss.NewRenderer(w)
		r.lip.SetColorProfile(termenv.TrueColor)
	}
	return r.blocks(blocks, width)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func (r textRenderer) blocks(blocks []model.Block, width int) []string {
	var lines []string
	for _, b := range blocks {
		var out []string
		switch b.Kind {
		case model.BlockHeading:
			out = r.heading(b.Heading, b.Level)
			if len(lines) > 0 {
				out = append([]string{""}, out...)
			}
		case model.BlockTable:
			if b.Table != nil {
				out = r.table(b.Table, width)
			}
		case model.BlockChart:
			if b.Chart != nil {
				out = r.chart(b.Chart, width)
			}
		case model.BlockSplit:
			out = r.split(b.Left, b.Right, width)
		}
		lines = append(lines, out...)
	}
	return lines
}

func (r textRenderer) heading(text string, level int) []string {
	title := r.bold(text)
	if level > 2 {
		return []string{title}
	}
	return []string{title, strings.Repeat("─", displayWidth(text))}
}

func (r textRenderer) table(t *model.Table, width int) []string {
	rows := make([][]string, 0, len(t.Rows))
	rightAlign := map[int]bool{}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = r.cell(cell)
			if cell.Kind == model.CellFancy {
				rightAlign[i] = true
			}
		}
		rows = append(rows, cells)
	}
	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = r.bold(h)
	}
	lines := layoutTable(headers, rows, rightAlign, width)
	if t.ShowMore != nil {
		lines = append(lines, truncate(fmt.Sprintf("→ %s: %s", r.showMore, FormatRef(t.ShowMore)), width))
	}
	return lines
}

func (r textRenderer) cell(c model.Cell) string {
	switch c.Kind {
	case model.CellFancy:
		return r.fancy(c.Value, c.Max, c.Color)
	default:
		if !c.Strike {
			return c.Text
		}
		if r.color {
			return r.lip.NewStyle().Strikethrough(true).Render(c.Text)
		}
		return "~" + c.Text + "~"
	}
}

// fancy draws a proportional bar followed by the value.
func (r textRenderer) fancy(value, maxValue int, color string) string {
	n := barLength(value, maxValue, cellBarWidth)
	bar := r.paint(strings.Repeat(fullBlock, n), color) + strings.Repeat(" ", cellBarWidth-n)
	return bar + " " + humanize.Comma(int64(value))
}

func barLength(value, maxValue, width int) int {
	if maxValue <= 0 || value <= 0 || width <= 0 {
		return 0
	}
	n := int(math.Round(float64(value) * float64(width) / float64(maxValue)))
	if n > width {
		n = width
	}
	return n
}

func (r textRenderer) chart(c *model.Chart, width int) []string {
	switch c.Kind {
	case model.ChartStacked:
		return r.stacked(c, width)
	case model.ChartBar:
		return r.bars(c, width)
	default:
		return nil
	}
}

// stacked draws label lines, the bar itself, then the percentage line.
func (r textRenderer) stacked(c *model.Chart, width int) []string {
	var bar strings.Builder
	cursor := 0
	for _, s := range c.Series {
		start := scalePercent(cursor, width)
		cursor += s.ValuePercent
		end := scalePercent(cursor, width)
		if end <= start {
			continue
		}
		glyph := fullBlock
		if !r.color {
			glyph = segmentGlyphs[s.Order%len(segmentGlyphs)]
		}
		bar.WriteString(r.paint(strings.Repeat(glyph, end-start), s.Color))
	}

	var labels, percents []model.Annotation
	for _, a := range c.Annotations {
		if a.IsLabel() {
			labels = append(labels, a)
		} else {
			percents = append(percents, a)
		}
	}
	lines := placeAnnotations(labels, width)
	lines = append(lines, bar.String())
	return append(lines, placeAnnotations(percents, width)...)
}

func scalePercent(percent, width int) int {
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return (percent*width + 50) / 100
}

type placed struct {
	start int
	text  string
}

// placeAnnotations centers each text on its x offset, moving it to a new line
// when it would overlap text already placed.
func placeAnnotations(anns []model.Annotation, width int) []string {
	items := make([]placed, len(anns))
	spans := make([]span, len(anns))
	for i, a := range anns {
		text := truncate(a.Text, width)
		tw := displayWidth(text)
		center := int(math.Round(a.XOffsetPercent * float64(width) / 100))
		start := center - tw/2
		if start > width-tw {
			start = width - tw
		}
		if start < 0 {
			start = 0
		}
		items[i] = placed{start: start, text: text}
		spans[i] = span{start: float64(start), end: float64(start + tw)}
	}
	rowOf := assignRows(spans, 1)

	var rows [][]placed
	for i, it := range items {
		for len(rows) <= rowOf[i] {
			rows = append(rows, nil)
		}
		rows[rowOf[i]] = append(rows[rowOf[i]], it)
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		sort.Slice(row, func(a, b int) bool { return row[a].start < row[b].start })
		var b strings.Builder
		col := 0
		for _, it := range row {
			b.WriteString(strings.Repeat(" ", it.start-col))
			b.WriteString(it.text)
			col = it.start + displayWidth(it.text)
		}
		lines[i] = b.String()
	}
	return lines
}

type span struct {
	start, end float64
}

// assignRows gives each span the first row where it keeps gap distance from
// every span already on that row.
func assignRows(spans []span, gap float64) []int {
	var rows [][]span
	out := make([]int, len(spans))
	for i, sp := range spans {
		row := -1
		for r, taken := range rows {
			free := true
			for _, other := range taken {
				if sp.start < other.end+gap && other.start < sp.end+gap {
					free = false
					break
				}
			}
			if free {
				row = r
				break
			}
		}
		if row < 0 {
			rows = append(rows, nil)
			row = len(rows) - 1
		}
		rows[row] = append(rows[row], sp)
		out[i] = row
	}
	return out
}

// bars draws a vertical bar chart sideways, one row per bar.
func (r textRenderer) bars(c *model.Chart, width int) []string {
	maxValue, labelWidth, valueWidth := 0, 0, 0
	for _, b := range c.Bars {
		if b.Value > maxValue {
			maxValue = b.Value
		}
		if w := displayWidth(b.Label); w > labelWidth {
			labelWidth = w
		}
		if w := len(humanize.Comma(int64(b.Value))); w > valueWidth {
			valueWidth = w
		}
	}
	if labelWidth > width/3 {
		labelWidth = width / 3
	}
	barWidth := width - labelWidth - valueWidth - 4
	if barWidth < 1 {
		barWidth = 1
	}
	rows := make([][]string, 0, len(c.Bars))
	for _, b := range c.Bars {
		n := barLength(b.Value, maxValue, barWidth)
		rows = append(rows, []string{
			truncate(b.Label, labelWidth),
			r.paint(strings.Repeat(fullBlock, n), b.Color) + strings.Repeat(" ", barWidth-n),
			humanize.Comma(int64(b.Value)),
		})
	}
	return layoutTable(nil, rows, map[int]bool{2: true}, width)
}

func (r textRenderer) split(left, right []model.Block, width int) []string {
	if width < minSplitWidth {
		return append(r.blocks(left, width), r.blocks(right, width)...)
	}
	colWidth := (width - displayWidth(splitSeparator)) / 2
	l := r.blocks(left, colWidth)
	rt := r.blocks(right, colWidth)
	n := len(l)
	if len(rt) > n {
		n = len(rt)
	}
	lines := make([]string, n)
	for i := 0; i < n; i++ {
		var a, b string
		if i < len(l) {
			a = l[i]
		}
		if i < len(rt) {
			b = rt[i]
		}
		lines[i] = strings.TrimRight(padCell(a, colWidth, false)+splitSeparator+b, " ")
	}
	return lines
}

func (r textRenderer) paint(text, color string) string {
	if !r.color || text == "" {
		return text
	}
	return r.lip.NewStyle().Foreground(lipgloss.Color(hexColor(color))).Render(text)
}

func (r textRenderer) bold(text string) string {
	if !r.color {
		return text
	}
	return r.lip.NewStyle().Bold(true).Render(text)
}
