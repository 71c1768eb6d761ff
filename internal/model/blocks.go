package model

// BlockKind tags the variant held by a Block.
type BlockKind string

const (
	BlockHeading BlockKind = "heading"
	BlockTable   BlockKind = "table"
	BlockChart   BlockKind = "chart"
	BlockSplit   BlockKind = "split"
)

// Block is one render-agnostic unit of report output.
type Block struct {
	Kind    BlockKind `json:"kind" yaml:"kind"`
	Heading string    `json:"heading,omitempty" yaml:"heading,omitempty"`
	Level   int       `json:"level,omitempty" yaml:"level,omitempty"`
	Table   *Table    `json:"table,omitempty" yaml:"table,omitempty"`
	Chart   *Chart    `json:"chart,omitempty" yaml:"chart,omitempty"`
	Left    []Block   `json:"left,omitempty" yaml:"left,omitempty"`
	Right   []Block   `json:"right,omitempty" yaml:"right,omitempty"`
}

// HeadingBlock builds a heading block.
func HeadingBlock(text string, level int) Block {
	return Block{Kind: BlockHeading, Heading: text, Level: level}
}

// TableBlock builds a table block.
func TableBlock(t Table) Block {
	return Block{Kind: BlockTable, Table: &t}
}

// ChartBlock builds a chart block.
func ChartBlock(c Chart) Block {
	return Block{Kind: BlockChart, Chart: &c}
}

// SplitBlock builds a two-column block.
func SplitBlock(left, right []Block) Block {
	return Block{Kind: BlockSplit, Left: left, Right: right}
}

// Ref names a navigation target without building a URL.
type Ref struct {
	Report string            `json:"report" yaml:"report"`
	Page   string            `json:"page,omitempty" yaml:"page,omitempty"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// CellKind tags the variant held by a Cell.
type CellKind string

const (
	CellText  CellKind = "text"
	CellFancy CellKind = "fancy"
)

// Cell is a table cell: plain text or a proportional bar.
type Cell struct {
	Kind   CellKind `json:"kind" yaml:"kind"`
	Text   string   `json:"text,omitempty" yaml:"text,omitempty"`
	Strike bool     `json:"strike,omitempty" yaml:"strike,omitempty"`
	Link   *Ref     `json:"link,omitempty" yaml:"link,omitempty"`
	Value  int      `json:"value,omitempty" yaml:"value,omitempty"`
	Max    int      `json:"max,omitempty" yaml:"max,omitempty"`
	Color  string   `json:"color,omitempty" yaml:"color,omitempty"`
}

// TextCell builds a plain text cell.
func TextCell(text string) Cell {
	return Cell{Kind: CellText, Text: text}
}

// FancyNumberCell builds a bar cell for value relative to maxValue.
func FancyNumberCell(value, maxValue int, color string) Cell {
	return Cell{Kind: CellFancy, Value: value, Max: maxValue, Color: color}
}

// Table is a header row plus data rows, optionally followed by a "show more" row.
type Table struct {
	Headers  []string `json:"headers" yaml:"headers"`
	Rows     [][]Cell `json:"rows" yaml:"rows"`
	ShowMore *Ref     `json:"show_more,omitempty" yaml:"show_more,omitempty"`
}

// ChartKind distinguishes stacked share charts from plain bar charts.
type ChartKind string

const (
	ChartStacked ChartKind = "stacked"
	ChartBar     ChartKind = "bar"
)

// ChartSeries is one segment of a stacked bar.
type ChartSeries struct {
	Key          string `json:"key" yaml:"key"`
	Color        string `json:"color" yaml:"color"`
	ValuePercent int    `json:"value_percent" yaml:"value_percent"`
	Label        string `json:"label" yaml:"label"`
	Order        int    `json:"order" yaml:"order"`
}

// Bar is one column of a plain bar chart.
type Bar struct {
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
	Color string `json:"color" yaml:"color"`
}

// AnnotationStyle holds the font and anchoring of an annotation.
type AnnotationStyle struct {
	Color   string `json:"color" yaml:"color"`
	Size    int    `json:"size" yaml:"size"`
	Anchor  string `json:"anchor" yaml:"anchor"`
	VAnchor string `json:"vanchor,omitempty" yaml:"vanchor,omitempty"`
}

// Annotation is a positioned text label over a chart.
type Annotation struct {
	XOffsetPercent float64         `json:"x_offset_percent" yaml:"x_offset_percent"`
	YShift         int             `json:"y_shift,omitempty" yaml:"y_shift,omitempty"`
	Text           string          `json:"text" yaml:"text"`
	Style          AnnotationStyle `json:"style" yaml:"style"`
}

// IsLabel reports whether the annotation names a category rather than showing its value.
func (a Annotation) IsLabel() bool {
	return a.Style.VAnchor != ""
}

// Axis configures one chart axis.
type Axis struct {
	Visible    bool        `json:"visible" yaml:"visible"`
	Range      *[2]float64 `json:"range,omitempty" yaml:"range,omitempty"`
	FixedRange bool        `json:"fixed_range" yaml:"fixed_range"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	Left   int `json:"l" yaml:"l"`
	Right  int `json:"r" yaml:"r"`
	Top    int `json:"t" yaml:"t"`
	Bottom int `json:"b" yaml:"b"`
}

// ChartLayout holds presentation constants consumed by the renderer.
type ChartLayout struct {
	Height      int     `json:"height" yaml:"height"`
	StaticPlot  bool    `json:"static_plot" yaml:"static_plot"`
	ShowToolbar bool    `json:"show_toolbar" yaml:"show_toolbar"`
	BarMode     string  `json:"bar_mode,omitempty" yaml:"bar_mode,omitempty"`
	Orientation string  `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	HoverInfo   string  `json:"hover_info,omitempty" yaml:"hover_info,omitempty"`
	ShowLegend  bool    `json:"show_legend" yaml:"show_legend"`
	Row         string  `json:"row,omitempty" yaml:"row,omitempty"`
	XAxis       *Axis   `json:"x_axis,omitempty" yaml:"x_axis,omitempty"`
	YAxis       *Axis   `json:"y_axis,omitempty" yaml:"y_axis,omitempty"`
	Margin      *Margin `json:"margin,omitempty" yaml:"margin,omitempty"`
}

// Chart is a render-agnostic chart descriptor.
type Chart struct {
	Kind        ChartKind     `json:"kind" yaml:"kind"`
	Series      []ChartSeries `json:"series,omitempty" yaml:"series,omitempty"`
	Bars        []Bar         `json:"bars,omitempty" yaml:"bars,omitempty"`
	Annotations []Annotation  `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Layout      ChartLayout   `json:"layout" yaml:"layout"`
}
