package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"

	"github.com/verte-zerg/lareport/internal/model"
)

const (
	pdfMargin       = 10.0
	pdfContentWidth = 190.0
	pdfFooterSpace  = 15.0
	pdfRowHeight    = 6.0
	pdfStackHeight  = 8.0
	pdfLabelHeight  = 4.5
	pdfBarRowHeight = 5.0
	pdfFancyWidth   = 50.0
	pdfValueWidth   = 14.0
	pdfSplitGap     = 6.0
	// Chart annotation sizes are given in screen pixels.
	pdfPixelToPoint = 0.6
)

var (
	titleFillColor = [3]int{0, 51, 102}
	headingColor   = [3]int{0, 51, 102}
	ruleColor      = [3]int{200, 200, 200}
	bodyTextColor  = [3]int{50, 50, 50}
	mutedTextColor = [3]int{128, 128, 128}
)

// PDFOptions controls the PDF renderer.
type PDFOptions struct {
	// ShowMore labels show-more rows.
	ShowMore string
}

type pdfRenderer struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	showMore string
}

// WritePDF renders the document as an A4 PDF.
func WritePDF(w io.Writer, doc Document, opts PDFOptions) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfFooterSpace)
	r := pdfRenderer{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		showMore: opts.ShowMore,
	}
	if r.showMore == "" {
		r.showMore = defaultShowMore
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfFooterSpace)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(mutedTextColor[0], mutedTextColor[1], mutedTextColor[2])
		pdf.CellFormat(0, 10, r.tr(doc.Title()), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	r.title(doc.Title())
	r.blocks(doc.Blocks, pdfMargin, pdfContentWidth)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func (r pdfRenderer) title(text string) {
	r.pdf.SetFillColor(titleFillColor[0], titleFillColor[1], titleFillColor[2])
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.CellFormat(0, 12, r.tr("  "+text), "", 1, "L", true, 0, "")
	r.pdf.Ln(6)
}

func (r pdfRenderer) blocks(blocks []model.Block, x, width float64) {
	for _, b := range blocks {
		switch b.Kind {
		case model.BlockHeading:
			r.heading(b.Heading, b.Level, x, width)
		case model.BlockTable:
			if b.Table != nil {
				r.table(b.Table, x, width)
			}
		case model.BlockChart:
			if b.Chart == nil {
				continue
			}
			switch b.Chart.Kind {
			case model.ChartStacked:
				r.stacked(b.Chart, x, width)
			case model.ChartBar:
				r.bars(b.Chart, x, width)
			}
		case model.BlockSplit:
			r.split(b.Left, b.Right, x, width)
		}
	}
}

// ensure starts a new page when h millimeters do not fit on the current one.
func (r pdfRenderer) ensure(h float64) {
	_, pageHeight := r.pdf.GetPageSize()
	if r.pdf.GetY()+h > pageHeight-pdfFooterSpace {
		r.pdf.AddPage()
	}
}

func (r pdfRenderer) heading(text string, level int, x, width float64) {
	size := 12.0
	if level > 2 {
		size = 10
	}
	r.ensure(14)
	r.pdf.SetX(x)
	r.pdf.SetFont("Arial", "B", size)
	r.pdf.SetTextColor(headingColor[0], headingColor[1], headingColor[2])
	r.pdf.CellFormat(width, 8, r.tr(text), "", 1, "L", false, 0, "")
	if level <= 2 {
		r.pdf.SetDrawColor(ruleColor[0], ruleColor[1], ruleColor[2])
		y := r.pdf.GetY()
		r.pdf.Line(x, y, x+width, y)
	}
	r.pdf.Ln(3)
}

func (r pdfRenderer) table(t *model.Table, x, width float64) {
	cols := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	fancy := make([]bool, cols)
	for _, row := range t.Rows {
		for i, cell := range row {
			if cell.Kind == model.CellFancy {
				fancy[i] = true
			}
		}
	}
	widths := columnWidths(fancy, width)

	r.ensure(2 * pdfRowHeight)
	r.pdf.SetX(x)
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	for i := 0; i < cols; i++ {
		header := ""
		if i < len(t.Headers) {
			header = t.Headers[i]
		}
		align := "L"
		if fancy[i] {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 7, r.tr(r.fit(header, widths[i])), "B", 0, align, false, 0, "")
	}
	r.pdf.Ln(7)

	r.pdf.SetFont("Arial", "", 9)
	for _, row := range t.Rows {
		r.ensure(pdfRowHeight)
		r.pdf.SetX(x)
		cx := x
		for i := 0; i < cols; i++ {
			if i < len(row) {
				r.cell(row[i], cx, widths[i])
			}
			cx += widths[i]
		}
		r.pdf.Ln(pdfRowHeight)
	}

	if t.ShowMore != nil {
		r.ensure(pdfRowHeight)
		r.pdf.SetX(x)
		r.pdf.SetFont("Arial", "I", 8)
		r.pdf.SetTextColor(mutedTextColor[0], mutedTextColor[1], mutedTextColor[2])
		text := fmt.Sprintf("%s: %s", r.showMore, FormatRef(t.ShowMore))
		r.pdf.CellFormat(width, 5, r.tr(r.fit(text, width)), "", 1, "L", false, 0, "")
		r.pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	}
	r.pdf.Ln(4)
}

// columnWidths gives bar columns a fixed share and splits the rest evenly.
func columnWidths(fancy []bool, width float64) []float64 {
	fancyWidth := pdfFancyWidth
	fancyCount := 0
	for _, f := range fancy {
		if f {
			fancyCount++
		}
	}
	textCount := len(fancy) - fancyCount
	if textCount == 0 || float64(fancyCount)*fancyWidth > width/2 {
		fancyWidth = width / float64(2*fancyCount)
		if textCount == 0 {
			fancyWidth = width / float64(fancyCount)
		}
	}
	textWidth := 0.0
	if textCount > 0 {
		textWidth = (width - float64(fancyCount)*fancyWidth) / float64(textCount)
	}
	widths := make([]float64, len(fancy))
	for i, f := range fancy {
		if f {
			widths[i] = fancyWidth
		} else {
			widths[i] = textWidth
		}
	}
	return widths
}

func (r pdfRenderer) cell(c model.Cell, x, width float64) {
	y := r.pdf.GetY()
	if c.Kind == model.CellFancy {
		barMax := width - pdfValueWidth - 1
		if barMax > 0 && c.Max > 0 && c.Value > 0 {
			bw := barMax * float64(c.Value) / float64(c.Max)
			if bw > barMax {
				bw = barMax
			}
			cr, cg, cb := rgb(c.Color)
			r.pdf.SetFillColor(cr, cg, cb)
			r.pdf.Rect(x, y+1.5, bw, pdfRowHeight-3, "F")
		}
		r.pdf.SetXY(x+width-pdfValueWidth, y)
		r.pdf.CellFormat(pdfValueWidth, pdfRowHeight, humanize.Comma(int64(c.Value)), "", 0, "R", false, 0, "")
		return
	}
	text := r.fit(c.Text, width)
	r.pdf.SetXY(x, y)
	r.pdf.CellFormat(width, pdfRowHeight, r.tr(text), "", 0, "L", false, 0, "")
	if c.Strike {
		sw := r.pdf.GetStringWidth(r.tr(text))
		mid := y + pdfRowHeight/2
		r.pdf.SetDrawColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		r.pdf.Line(x+r.pdf.GetCellMargin(), mid, x+r.pdf.GetCellMargin()+sw, mid)
	}
}

// fit shortens text until it fits inside a cell of the given width.
func (r pdfRenderer) fit(text string, width float64) string {
	limit := width - 2*r.pdf.GetCellMargin()
	if r.pdf.GetStringWidth(r.tr(text)) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if r.pdf.GetStringWidth(r.tr(candidate)) <= limit {
			return candidate
		}
	}
	return ""
}

func (r pdfRenderer) stacked(c *model.Chart, x, width float64) {
	var labels, percents []model.Annotation
	for _, a := range c.Annotations {
		if a.IsLabel() {
			labels = append(labels, a)
		} else {
			percents = append(percents, a)
		}
	}

	spans := make([]span, len(labels))
	for i, a := range labels {
		r.annotationFont(a.Style)
		tw := r.pdf.GetStringWidth(r.tr(a.Text))
		cx := x + width*a.XOffsetPercent/100
		spans[i] = span{start: cx - tw/2, end: cx + tw/2}
	}
	rowOf := assignRows(spans, 1)
	rowCount := 0
	for _, row := range rowOf {
		if row+1 > rowCount {
			rowCount = row + 1
		}
	}

	r.ensure(float64(rowCount)*pdfLabelHeight + pdfStackHeight + 4)
	top := r.pdf.GetY()
	barY := top + float64(rowCount)*pdfLabelHeight

	// Label rows are stacked upward from the bar.
	for i, a := range labels {
		r.annotationFont(a.Style)
		baseline := barY - float64(rowOf[i])*pdfLabelHeight - 1
		r.pdf.Text(spans[i].start, baseline, r.tr(a.Text))
	}

	cursor := 0
	for _, s := range c.Series {
		start := x + width*float64(clampPercent(cursor))/100
		cursor += s.ValuePercent
		end := x + width*float64(clampPercent(cursor))/100
		if end <= start {
			continue
		}
		cr, cg, cb := rgb(s.Color)
		r.pdf.SetFillColor(cr, cg, cb)
		r.pdf.Rect(start, barY, end-start, pdfStackHeight, "F")
	}

	for _, a := range percents {
		r.annotationFont(a.Style)
		tw := r.pdf.GetStringWidth(r.tr(a.Text))
		cx := x + width*a.XOffsetPercent/100
		r.pdf.Text(cx-tw/2, barY+pdfStackHeight/2+1.2, r.tr(a.Text))
	}

	r.pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	r.pdf.SetXY(x, barY+pdfStackHeight+4)
}

func clampPercent(p int) int {
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

func (r pdfRenderer) annotationFont(style model.AnnotationStyle) {
	size := float64(style.Size) * pdfPixelToPoint
	if size <= 0 {
		size = 8
	}
	r.pdf.SetFont("Arial", "", size)
	cr, cg, cb := rgb(style.Color)
	r.pdf.SetTextColor(cr, cg, cb)
}

// bars draws a vertical bar chart sideways, one row per bar.
func (r pdfRenderer) bars(c *model.Chart, x, width float64) {
	maxValue := 0
	for _, b := range c.Bars {
		if b.Value > maxValue {
			maxValue = b.Value
		}
	}
	labelWidth := width / 3
	barMax := width - labelWidth - pdfValueWidth - 2

	r.pdf.SetFont("Arial", "", 8)
	r.pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	for _, b := range c.Bars {
		r.ensure(pdfBarRowHeight)
		y := r.pdf.GetY()
		r.pdf.SetXY(x, y)
		r.pdf.CellFormat(labelWidth, pdfBarRowHeight, r.tr(r.fit(b.Label, labelWidth)), "", 0, "L", false, 0, "")
		if maxValue > 0 && b.Value > 0 {
			cr, cg, cb := rgb(b.Color)
			r.pdf.SetFillColor(cr, cg, cb)
			r.pdf.Rect(x+labelWidth, y+1, barMax*float64(b.Value)/float64(maxValue), pdfBarRowHeight-2, "F")
		}
		r.pdf.SetXY(x+width-pdfValueWidth, y)
		r.pdf.CellFormat(pdfValueWidth, pdfBarRowHeight, humanize.Comma(int64(b.Value)), "", 0, "R", false, 0, "")
		r.pdf.SetXY(x, y+pdfBarRowHeight)
	}
	r.pdf.Ln(4)
}

// split draws two block columns from the same starting line.
func (r pdfRenderer) split(left, right []model.Block, x, width float64) {
	colWidth := (width - pdfSplitGap) / 2
	leftMargin, _, _, _ := r.pdf.GetMargins()
	startPage := r.pdf.PageNo()
	top := r.pdf.GetY()

	r.pdf.SetLeftMargin(x)
	r.pdf.SetXY(x, top)
	r.blocks(left, x, colWidth)
	leftPage, leftY := r.pdf.PageNo(), r.pdf.GetY()

	rightX := x + colWidth + pdfSplitGap
	if r.pdf.PageNo() != startPage {
		r.pdf.SetPage(startPage)
	}
	r.pdf.SetLeftMargin(rightX)
	r.pdf.SetXY(rightX, top)
	r.blocks(right, rightX, colWidth)
	rightPage, rightY := r.pdf.PageNo(), r.pdf.GetY()

	r.pdf.SetLeftMargin(leftMargin)
	switch {
	case leftPage > rightPage:
		r.pdf.SetPage(leftPage)
		r.pdf.SetXY(leftMargin, leftY)
	case rightPage > leftPage:
		r.pdf.SetXY(leftMargin, rightY)
	default:
		y := leftY
		if rightY > y {
			y = rightY
		}
		r.pdf.SetXY(leftMargin, y)
	}
}
