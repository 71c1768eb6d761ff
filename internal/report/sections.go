package report

import (
	"github.com/verte-zerg/lareport/internal/config"
	"github.com/verte-zerg/lareport/internal/model"
	"github.com/verte-zerg/lareport/internal/stats"
)

const headingLevel = 2

// shareSection renders a heading and stacked chart for one group of buckets.
// It yields nothing when no bucket survives filtering.
func shareSection(s config.Settings, heading, group, row string, buckets []model.Bucket) []model.Block {
	chart, ok := stats.ShareChart(buckets, s.Options, s.Catalog.Resolver(group), s.Cyclic, stats.ChartOptions{
		Row:        row,
		LabelShift: &s.LabelShift,
		Fallback:   s.Catalog.String("unknown"),
	})
	if !ok {
		return nil
	}
	return []model.Block{
		model.HeadingBlock(heading, headingLevel),
		model.ChartBlock(chart),
	}
}
