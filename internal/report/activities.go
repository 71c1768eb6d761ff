package report

import (
	"context"
	"fmt"

	"github.com/verte-zerg/lareport/internal/config"
	"github.com/verte-zerg/lareport/internal/model"
	"github.com/verte-zerg/lareport/internal/stats"
)

// Activities reports hits per course module and module type.
type Activities struct {
	src      Source
	settings config.Settings
}

// NewActivities builds the activities report.
func NewActivities(src Source, settings config.Settings) *Activities {
	return &Activities{src: src, settings: settings}
}

// Name implements Report.
func (a *Activities) Name() string { return "activities" }

// Parameters implements Report.
func (a *Activities) Parameters() []Parameter {
	return []Parameter{
		{Name: ParamCourse, Type: "course", Requirement: RequiredAlways},
		{Name: ParamMod, Type: "text", Requirement: RequiredHidden},
	}
}

// Pages implements Report.
func (a *Activities) Pages() []string { return []string{PageAll} }

// Run implements Report.
func (a *Activities) Run(ctx context.Context, page string, params Params) ([]model.Block, error) {
	if err := checkPage(a, page); err != nil {
		return nil, err
	}
	courseID, err := params.Course()
	if err != nil {
		return nil, err
	}
	mod := params[ParamMod]
	records, err := a.src.ListActivities(ctx, courseID, mod)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	if page == PageAll {
		return a.all(records), nil
	}
	return a.overview(courseID, mod, records), nil
}

func (a *Activities) overview(courseID int64, mod string, records []model.UsageRecord) []model.Block {
	visible := stats.FilterRecords(records, a.settings.Options.Threshold)
	var blocks []model.Block
	if chart, ok := stats.BuildBarChart(visible, a.settings.Keyed); ok {
		blocks = append(blocks, model.ChartBlock(chart))
	}
	blocks = append(blocks, model.TableBlock(a.typesTable(courseID, mod, records)))

	top, more := stats.RankRecords(visible, a.settings.Options.Top)
	details := a.detailsTable(top, maxCount(visible))
	if more {
		details.ShowMore = courseRef(a.Name(), PageAll, courseID)
	}
	blocks = append(blocks,
		model.HeadingBlock(a.settings.Catalog.String("most_used_activities"), 3),
		model.TableBlock(details),
	)
	return blocks
}

func (a *Activities) all(records []model.UsageRecord) []model.Block {
	visible := stats.FilterRecords(records, a.settings.Options.Threshold)
	ranked, _ := stats.RankRecords(visible, 0)
	return []model.Block{
		model.HeadingBlock(a.settings.Catalog.String("all_activities"), headingLevel),
		model.TableBlock(a.detailsTable(ranked, maxCount(visible))),
	}
}

func (a *Activities) typesTable(courseID int64, mod string, records []model.UsageRecord) model.Table {
	buckets := stats.FilterBuckets(stats.Aggregate(records), a.settings.Options.Threshold)
	ranking := stats.Rank(buckets, 0)
	maxHits := stats.MaxTotal(buckets, 1)

	table := model.Table{
		Headers: a.settings.Catalog.Strings("activity_type", "hits"),
		Rows:    make([][]model.Cell, 0, len(ranking.Entries)),
	}
	for _, e := range ranking.Entries {
		typeCell := model.TextCell(e.Key)
		typeCell.Link = courseRef(a.Name(), "", courseID, ParamMod, e.Key)
		table.Rows = append(table.Rows, []model.Cell{
			typeCell,
			model.FancyNumberCell(e.Total, maxHits, a.settings.KeyedText.Color(e.Key, e.Rank)),
		})
	}
	if mod != "" {
		table.ShowMore = courseRef(a.Name(), "", courseID)
	}
	return table
}

func (a *Activities) detailsTable(records []model.UsageRecord, maxHits int) model.Table {
	table := model.Table{
		Headers: a.settings.Catalog.Strings("activity_name", "activity_type", "section", "hits"),
		Rows:    make([][]model.Cell, 0, len(records)),
	}
	for i, rec := range records {
		nameCell := model.TextCell(rec.Label)
		nameCell.Strike = rec.Meta(model.MetaVisible) == "false"
		table.Rows = append(table.Rows, []model.Cell{
			nameCell,
			model.TextCell(rec.Category),
			model.TextCell(rec.Meta(model.MetaSection)),
			model.FancyNumberCell(rec.Count, maxHits, a.settings.KeyedText.Color(rec.Category, i)),
		})
	}
	return table
}

func maxCount(records []model.UsageRecord) int {
	maxVal := 1
	for _, rec := range records {
		if rec.Count > maxVal {
			maxVal = rec.Count
		}
	}
	return maxVal
}
