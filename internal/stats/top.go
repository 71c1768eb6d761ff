package stats

import (
	"sort"

	"github.com/verte-zerg/lareport/internal/model"
)

// RankBy stably sorts items by count, highest first, and keeps at most topN.
// A topN of zero or less keeps everything. The bool reports whether items were cut.
func RankBy[T any](items []T, count func(T) int, topN int) ([]T, bool) {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return count(sorted[i]) > count(sorted[j])
	})
	if topN > 0 && len(sorted) > topN {
		return sorted[:topN], true
	}
	return sorted, false
}

// Rank orders buckets by total descending. Equal totals keep input order.
func Rank(buckets []model.Bucket, topN int) model.Ranking {
	sorted, more := RankBy(buckets, func(b model.Bucket) int { return b.Total }, topN)
	entries := make([]model.RankedEntry, len(sorted))
	for i, b := range sorted {
		entries[i] = model.RankedEntry{Bucket: b, Rank: i}
	}
	return model.Ranking{Entries: entries, More: more}
}

// RankRecords orders records by count descending.
func RankRecords(records []model.UsageRecord, topN int) ([]model.UsageRecord, bool) {
	return RankBy(records, func(r model.UsageRecord) int { return r.Count }, topN)
}

// RankedBuckets returns the buckets of a ranking in rank order.
func RankedBuckets(r model.Ranking) []model.Bucket {
	out := make([]model.Bucket, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Bucket
	}
	return out
}
