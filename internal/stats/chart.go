package stats

import (
	"fmt"

	"github.com/verte-zerg/lareport/internal/model"
)

const (
	stackedChartHeight = 70
	barChartHeight     = 300
	// Shares at or below this width get no percentage annotation.
	minAnnotatedPercent = 3
	defaultRow          = "value"
	// DefaultLabelShift is the stock vertical offset of category labels.
	DefaultLabelShift = 16
	// DefaultFallbackLabel is shown for keys the label resolver does not know.
	DefaultFallbackLabel = "Unknown"
)

// LabelFunc resolves a category key to display text.
type LabelFunc func(key string) (string, error)

// ChartOptions tunes a stacked chart.
type ChartOptions struct {
	// Row names the single category row the bars are stacked on.
	Row string
	// LabelShift is the vertical offset of the category label annotation.
	// Nil means DefaultLabelShift; zero is a valid offset.
	LabelShift *int
	// Fallback is used when a key is empty or cannot be resolved.
	Fallback string
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.Row == "" {
		o.Row = defaultRow
	}
	if o.LabelShift == nil {
		shift := DefaultLabelShift
		o.LabelShift = &shift
	}
	if o.Fallback == "" {
		o.Fallback = DefaultFallbackLabel
	}
	return o
}

// ResolveLabel returns the display text for key, or fallback when it is unknown.
func ResolveLabel(resolve LabelFunc, key, fallback string) string {
	if key == "" {
		return fallback
	}
	if resolve == nil {
		return key
	}
	label, err := resolve(key)
	if err != nil || label == "" {
		return fallback
	}
	return label
}

// BuildStackedChart lays shares out left to right as one stacked horizontal bar.
// It returns false when there is nothing to draw.
func BuildStackedChart(shares []model.Share, resolve LabelFunc, palette Palette, opts ChartOptions) (model.Chart, bool) {
	if len(shares) == 0 {
		return model.Chart{}, false
	}
	opts = opts.withDefaults()
	series := make([]model.ChartSeries, 0, len(shares))
	annotations := make([]model.Annotation, 0, 2*len(shares))
	cursor := 0
	for i, share := range shares {
		label := ResolveLabel(resolve, share.Key, opts.Fallback)
		series = append(series, model.ChartSeries{
			Key:          share.Key,
			Color:        palette.Color(share.Key, i),
			ValuePercent: share.Percent,
			Label:        label,
			Order:        i,
		})
		center := float64(cursor) + float64(share.Percent)/2
		if share.Percent > minAnnotatedPercent {
			annotations = append(annotations, model.Annotation{
				XOffsetPercent: center,
				Text:           fmt.Sprintf("%d%%", share.Percent),
				Style:          model.AnnotationStyle{Color: "#fff", Size: 14, Anchor: "center"},
			})
		}
		// The category label is kept even for narrow segments.
		annotations = append(annotations, model.Annotation{
			XOffsetPercent: center,
			YShift:         *opts.LabelShift,
			Text:           label,
			Style:          model.AnnotationStyle{Color: "#000", Size: 16, Anchor: "center", VAnchor: "bottom"},
		})
		cursor += share.Percent
	}
	return model.Chart{
		Kind:        model.ChartStacked,
		Series:      series,
		Annotations: annotations,
		Layout:      stackedLayout(opts.Row),
	}, true
}

func stackedLayout(row string) model.ChartLayout {
	return model.ChartLayout{
		Height:      stackedChartHeight,
		StaticPlot:  true,
		ShowToolbar: false,
		BarMode:     "stack",
		Orientation: "h",
		HoverInfo:   "none",
		ShowLegend:  false,
		Row:         row,
		XAxis:       &model.Axis{Visible: false, Range: &[2]float64{0, 100}, FixedRange: true},
		YAxis:       &model.Axis{Visible: false, FixedRange: true},
		Margin:      &model.Margin{Left: 0, Right: 0, Top: 10, Bottom: 0},
	}
}

// BuildBarChart draws one bar per record in input order, colored by category.
func BuildBarChart(records []model.UsageRecord, palette Palette) (model.Chart, bool) {
	if len(records) == 0 {
		return model.Chart{}, false
	}
	bars := make([]model.Bar, len(records))
	for i, rec := range records {
		bars[i] = model.Bar{
			Label: rec.Label,
			Value: rec.Count,
			Color: palette.Color(rec.Category, i),
		}
	}
	return model.Chart{
		Kind: model.ChartBar,
		Bars: bars,
		Layout: model.ChartLayout{
			Height:      barChartHeight,
			ShowToolbar: false,
		},
	}, true
}

// ShareChart runs the filter, normalize and build steps for one group of buckets.
// Zero-count buckets never reach the chart, whatever the threshold.
func ShareChart(buckets []model.Bucket, opts Options, resolve LabelFunc, palette Palette, chartOpts ChartOptions) (model.Chart, bool) {
	kept := FilterBuckets(buckets, max(opts.Threshold, DefaultThreshold))
	shares := Normalize(kept, opts.Rounding)
	return BuildStackedChart(shares, resolve, palette, chartOpts)
}
