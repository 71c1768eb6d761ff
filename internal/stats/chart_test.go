package stats

import (
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/lareport/internal/model"
)

var errNoLabel = errors.New("no label")

func upperLabel(key string) (string, error) {
	return strings.ToUpper(key), nil
}

func TestBuildStackedChartScenario(t *testing.T) {
	shares := Normalize([]model.Bucket{
		{Key: "quiz", Total: 40},
		{Key: "resource", Total: 35},
		{Key: "page", Total: 20},
		{Key: "url", Total: 5},
	}, RoundIndependent)
	chart, ok := BuildStackedChart(shares, upperLabel, NewCyclicPalette(DefaultBarColors()), ChartOptions{})
	if !ok {
		t.Fatalf("expected a chart")
	}
	if len(chart.Series) != 4 {
		t.Fatalf("expected 4 series, got %d", len(chart.Series))
	}
	if len(chart.Annotations) != 8 {
		t.Fatalf("expected 8 annotations, got %d", len(chart.Annotations))
	}
	wantCenters := []float64{20, 57.5, 85, 97.5}
	for i, s := range chart.Series {
		if s.Order != i {
			t.Fatalf("series %d has order %d", i, s.Order)
		}
		pct := chart.Annotations[2*i]
		label := chart.Annotations[2*i+1]
		if pct.XOffsetPercent != wantCenters[i] || label.XOffsetPercent != wantCenters[i] {
			t.Fatalf("series %d: unexpected centers %v/%v", i, pct.XOffsetPercent, label.XOffsetPercent)
		}
		if label.Text != strings.ToUpper(s.Key) || s.Label != label.Text {
			t.Fatalf("series %d: unexpected label %q", i, label.Text)
		}
		if label.YShift != DefaultLabelShift {
			t.Fatalf("expected label shift %d, got %d", DefaultLabelShift, label.YShift)
		}
	}
	if chart.Annotations[6].Text != "5%" {
		t.Fatalf("expected 5%% annotation for url, got %q", chart.Annotations[6].Text)
	}
}

func TestBuildStackedChartSuppressesNarrowPercent(t *testing.T) {
	shares := []model.Share{{Key: "wide", Percent: 97}, {Key: "narrow", Percent: 3}}
	chart, ok := BuildStackedChart(shares, upperLabel, NewCyclicPalette(DefaultBarColors()), ChartOptions{})
	if !ok {
		t.Fatalf("expected a chart")
	}
	if len(chart.Annotations) != 3 {
		t.Fatalf("expected 3 annotations, got %d", len(chart.Annotations))
	}
	last := chart.Annotations[2]
	if last.Text != "NARROW" {
		t.Fatalf("expected label annotation for narrow series, got %q", last.Text)
	}
	for _, a := range chart.Annotations {
		if a.Text == "3%" {
			t.Fatalf("narrow series must not get a percentage annotation")
		}
	}
}

func TestBuildStackedChartSingleBucket(t *testing.T) {
	shares := Normalize([]model.Bucket{{Key: "only", Total: 10}}, RoundIndependent)
	chart, ok := BuildStackedChart(shares, upperLabel, NewCyclicPalette(DefaultBarColors()), ChartOptions{Row: "lang"})
	if !ok {
		t.Fatalf("expected a chart")
	}
	if len(chart.Series) != 1 || chart.Series[0].ValuePercent != 100 {
		t.Fatalf("unexpected series: %+v", chart.Series)
	}
	if len(chart.Annotations) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(chart.Annotations))
	}
	for _, a := range chart.Annotations {
		if a.XOffsetPercent != 50 {
			t.Fatalf("expected center 50, got %v", a.XOffsetPercent)
		}
	}
	if chart.Annotations[0].Text != "100%" {
		t.Fatalf("unexpected percentage text %q", chart.Annotations[0].Text)
	}
	if chart.Layout.Row != "lang" {
		t.Fatalf("expected row lang, got %q", chart.Layout.Row)
	}
}

func TestBuildStackedChartZeroLabelShift(t *testing.T) {
	zero := 0
	shares := []model.Share{{Key: "en", Percent: 60}, {Key: "de", Percent: 40}}
	chart, ok := BuildStackedChart(shares, upperLabel, NewCyclicPalette(DefaultBarColors()), ChartOptions{LabelShift: &zero})
	if !ok {
		t.Fatalf("expected a chart")
	}
	labels := 0
	for _, a := range chart.Annotations {
		if !a.IsLabel() {
			continue
		}
		labels++
		if a.YShift != 0 {
			t.Fatalf("expected zero shift on %q, got %d", a.Text, a.YShift)
		}
	}
	if labels != 2 {
		t.Fatalf("expected 2 category labels, got %d", labels)
	}
}

func TestShareChartDropsZeroBucketsWithZeroThreshold(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 0
	buckets := []model.Bucket{{Key: "en", Total: 3}, {Key: "fr", Total: 0}}
	chart, ok := ShareChart(buckets, opts, upperLabel, NewCyclicPalette(DefaultBarColors()), ChartOptions{})
	if !ok {
		t.Fatalf("expected a chart")
	}
	if len(chart.Series) != 1 || chart.Series[0].Key != "en" || chart.Series[0].ValuePercent != 100 {
		t.Fatalf("zero bucket should not be charted: %+v", chart.Series)
	}
	for _, a := range chart.Annotations {
		if a.Text == "FR" {
			t.Fatalf("zero bucket got an annotation")
		}
	}
}

func TestBuildStackedChartEmpty(t *testing.T) {
	if _, ok := BuildStackedChart(nil, upperLabel, NewCyclicPalette(DefaultBarColors()), ChartOptions{}); ok {
		t.Fatalf("expected no chart for empty input")
	}
	opts := DefaultOptions()
	if _, ok := ShareChart([]model.Bucket{{Key: "a", Total: 0}}, opts, upperLabel, NewCyclicPalette(DefaultBarColors()), ChartOptions{}); ok {
		t.Fatalf("expected no chart when everything is filtered")
	}
}

func TestBuildStackedChartLayout(t *testing.T) {
	chart, _ := BuildStackedChart([]model.Share{{Key: "a", Percent: 100}}, upperLabel, NewCyclicPalette(DefaultBarColors()), ChartOptions{})
	l := chart.Layout
	if l.Height != 70 || !l.StaticPlot || l.ShowToolbar || l.ShowLegend {
		t.Fatalf("unexpected layout flags: %+v", l)
	}
	if l.BarMode != "stack" || l.Orientation != "h" || l.HoverInfo != "none" {
		t.Fatalf("unexpected bar settings: %+v", l)
	}
	if l.XAxis == nil || l.XAxis.Visible || !l.XAxis.FixedRange || l.XAxis.Range == nil || *l.XAxis.Range != [2]float64{0, 100} {
		t.Fatalf("unexpected x axis: %+v", l.XAxis)
	}
	if l.YAxis == nil || l.YAxis.Visible || !l.YAxis.FixedRange {
		t.Fatalf("unexpected y axis: %+v", l.YAxis)
	}
	if l.Margin == nil || *l.Margin != (model.Margin{Top: 10}) {
		t.Fatalf("unexpected margin: %+v", l.Margin)
	}
	if l.Row != defaultRow {
		t.Fatalf("expected default row, got %q", l.Row)
	}
}

func TestBuildStackedChartColorsAndFallbackLabel(t *testing.T) {
	shares := make([]model.Share, 7)
	for i := range shares {
		shares[i] = model.Share{Key: string(rune('a' + i)), Percent: 14}
	}
	shares[6].Key = ""
	failing := func(key string) (string, error) {
		if key == "c" {
			return "", errNoLabel
		}
		return key, nil
	}
	palette := NewCyclicPalette(DefaultBarColors())
	chart, _ := BuildStackedChart(shares, failing, palette, ChartOptions{Fallback: "unknown"})
	for i, s := range chart.Series {
		if s.Color != palette.Color("", i) {
			t.Fatalf("series %d: unexpected color %q", i, s.Color)
		}
	}
	if chart.Series[5].Color != chart.Series[0].Color {
		t.Fatalf("expected palette to wrap after %d colors", palette.Len())
	}
	if chart.Series[2].Label != "unknown" {
		t.Fatalf("expected fallback label for unresolved key, got %q", chart.Series[2].Label)
	}
	if chart.Series[6].Label != "unknown" {
		t.Fatalf("expected fallback label for empty key, got %q", chart.Series[6].Label)
	}
}

func TestBuildBarChart(t *testing.T) {
	records := []model.UsageRecord{
		{Category: "quiz", Label: "Quiz 1", Count: 4},
		{Category: "lesson", Label: "Lesson", Count: 2},
	}
	chart, ok := BuildBarChart(records, NewKeyedPalette(DefaultActivityColors(), FallbackColor))
	if !ok {
		t.Fatalf("expected a chart")
	}
	if chart.Kind != model.ChartBar || chart.Layout.Height != 300 || chart.Layout.ShowToolbar {
		t.Fatalf("unexpected chart: %+v", chart)
	}
	if chart.Bars[0].Color != "#A9CF54" || chart.Bars[1].Color != FallbackColor {
		t.Fatalf("unexpected bar colors: %+v", chart.Bars)
	}
	if _, ok := BuildBarChart(nil, NewKeyedPalette(nil, FallbackColor)); ok {
		t.Fatalf("expected no chart for empty records")
	}
}
