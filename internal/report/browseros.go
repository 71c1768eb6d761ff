package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/verte-zerg/lareport/internal/config"
	"github.com/verte-zerg/lareport/internal/model"
	"github.com/verte-zerg/lareport/internal/stats"
)

// Groups of the browser/OS tallies.
const (
	GroupPlatform = "platform"
	GroupOS       = "os"
	GroupBrowser  = "browser"
	GroupMobile   = "mobile"
)

const (
	browserOSRow = "value"
	browserColor = "orange"
)

// BrowserOS reports platform, browser and operating system shares of a course.
type BrowserOS struct {
	src      Source
	settings config.Settings
}

// NewBrowserOS builds the browser/OS report.
func NewBrowserOS(src Source, settings config.Settings) *BrowserOS {
	return &BrowserOS{src: src, settings: settings}
}

// Name implements Report.
func (b *BrowserOS) Name() string { return "browser_os" }

// Parameters implements Report.
func (b *BrowserOS) Parameters() []Parameter {
	return []Parameter{{Name: ParamCourse, Type: "course", Requirement: RequiredAlways}}
}

// Pages implements Report.
func (b *BrowserOS) Pages() []string { return nil }

// Run implements Report.
func (b *BrowserOS) Run(ctx context.Context, page string, params Params) ([]model.Block, error) {
	if err := checkPage(b, page); err != nil {
		return nil, err
	}
	courseID, err := params.Course()
	if err != nil {
		return nil, err
	}
	triples, err := b.src.BrowserOS(ctx, courseID)
	if errors.Is(err, model.ErrNoRecord) {
		return nil, fmt.Errorf("%w: no browser/os tallies for course %d", ErrMissingSubjectData, courseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query browser/os tallies: %w", err)
	}

	var blocks []model.Block
	blocks = append(blocks, b.section(GroupPlatform, triples)...)
	blocks = append(blocks, b.browsers(stats.BucketsFromTriples(triples, GroupBrowser))...)

	left := b.section(GroupOS, triples)
	right := b.section(GroupMobile, triples)
	if len(left) > 0 || len(right) > 0 {
		blocks = append(blocks, model.SplitBlock(left, right))
	}
	return blocks, nil
}

func (b *BrowserOS) section(group string, triples []model.Triple) []model.Block {
	return shareSection(b.settings, b.settings.Catalog.String(group), group, browserOSRow, stats.BucketsFromTriples(triples, group))
}

// browsers lists desktop browsers by hits, each bar relative to the sum of all hits.
func (b *BrowserOS) browsers(buckets []model.Bucket) []model.Block {
	kept := stats.FilterBuckets(buckets, b.settings.Options.Threshold)
	ranking := stats.Rank(kept, 0)
	sum := stats.SumTotal(kept)

	table := model.Table{
		Headers: b.settings.Catalog.Strings("browser_name", "hits"),
		Rows:    make([][]model.Cell, 0, len(ranking.Entries)),
	}
	for _, e := range ranking.Entries {
		name, err := b.settings.Catalog.Label(GroupBrowser, e.Key)
		if err != nil {
			name = e.Key
		}
		table.Rows = append(table.Rows, []model.Cell{
			model.TextCell(name),
			model.FancyNumberCell(e.Total, sum, browserColor),
		})
	}
	return []model.Block{
		model.HeadingBlock(b.settings.Catalog.String("desktop_browser_use"), headingLevel),
		model.TableBlock(table),
	}
}
