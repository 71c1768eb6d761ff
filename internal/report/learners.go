package report

import (
	"context"
	"fmt"

	"github.com/verte-zerg/lareport/internal/config"
	"github.com/verte-zerg/lareport/internal/labels"
	"github.com/verte-zerg/lareport/internal/model"
	"github.com/verte-zerg/lareport/internal/stats"
)

const (
	learnersRow  = "lang"
	learnerColor = "blue"
)

// Learners reports participation and localization of a course's students.
type Learners struct {
	src      Source
	settings config.Settings
}

// NewLearners builds the learners report.
func NewLearners(src Source, settings config.Settings) *Learners {
	return &Learners{src: src, settings: settings}
}

// Name implements Report.
func (l *Learners) Name() string { return "learners" }

// Parameters implements Report.
func (l *Learners) Parameters() []Parameter {
	return []Parameter{{Name: ParamCourse, Type: "course", Requirement: RequiredAlways}}
}

// Pages implements Report.
func (l *Learners) Pages() []string { return []string{PageAll} }

// Run implements Report.
func (l *Learners) Run(ctx context.Context, page string, params Params) ([]model.Block, error) {
	if err := checkPage(l, page); err != nil {
		return nil, err
	}
	courseID, err := params.Course()
	if err != nil {
		return nil, err
	}
	hits, err := l.src.ListLearnerHits(ctx, courseID, model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to query learner hits: %w", err)
	}
	if page == PageAll {
		return l.participation(courseID, hits, 0), nil
	}

	blocks := l.participation(courseID, hits, l.settings.Options.Top)
	for _, loc := range []struct {
		field   string
		heading string
	}{
		{labels.GroupLanguage, "languages_of_learners"},
		{labels.GroupCountry, "countries_of_learners"},
	} {
		records, err := l.src.ListLocalization(ctx, courseID, loc.field, model.RoleStudent)
		if err != nil {
			return nil, fmt.Errorf("failed to query learner %s: %w", loc.field, err)
		}
		buckets := stats.RankedBuckets(stats.Rank(stats.Aggregate(records), 0))
		blocks = append(blocks, shareSection(l.settings, l.settings.Catalog.String(loc.heading), loc.field, learnersRow, buckets)...)
	}
	return blocks, nil
}

// participation lists learners by hits; topN <= 0 lists everyone.
func (l *Learners) participation(courseID int64, records []model.UsageRecord, topN int) []model.Block {
	kept := stats.FilterRecords(records, l.settings.Options.Threshold)
	ranked, more := stats.RankRecords(kept, topN)
	maxHits := maxCount(kept)

	table := model.Table{
		Headers: l.settings.Catalog.Strings("learner", "hits"),
		Rows:    make([][]model.Cell, 0, len(ranked)),
	}
	for _, rec := range ranked {
		table.Rows = append(table.Rows, []model.Cell{
			model.TextCell(rec.Label),
			model.FancyNumberCell(rec.Count, maxHits, learnerColor),
		})
	}
	if more {
		table.ShowMore = courseRef(l.Name(), PageAll, courseID)
	}
	return []model.Block{
		model.HeadingBlock(l.settings.Catalog.String("most_active_learners"), headingLevel),
		model.TableBlock(table),
	}
}
